package domain

import "encoding/json"

// Result is the uniform {data, error} envelope returned by every resolution.
// Exactly one of the data fields or Err is meaningful.
type Result struct {
	// Rows is the data of a multi-row result.
	Rows []Record
	// Row is the data of a Single result; nil when no row matched.
	Row    Record
	Single bool
	Err    *Error
}

// Success builds a successful result. Single results keep the first row only.
func Success(single bool, rows []Record) Result {
	if single {
		var row Record
		if len(rows) > 0 {
			row = rows[0]
		}
		return Result{Row: row, Single: true}
	}
	if rows == nil {
		rows = []Record{}
	}
	return Result{Rows: rows}
}

// Failure builds a failed result with no data.
func Failure(err *Error) Result {
	return Result{Err: err}
}

// OK reports whether the resolution succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// AsError returns the envelope error as a plain error, or nil on success.
func (r Result) AsError() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// Data returns the data half of the envelope: []Record, Record or nil.
func (r Result) Data() interface{} {
	if r.Err != nil {
		return nil
	}
	if r.Single {
		if r.Row == nil {
			return nil
		}
		return r.Row
	}
	return r.Rows
}

// MarshalJSON encodes the envelope as {"data": ..., "error": ...}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data  interface{} `json:"data"`
		Error *Error      `json:"error"`
	}{r.Data(), r.Err})
}
