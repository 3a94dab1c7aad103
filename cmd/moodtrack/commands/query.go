package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/moodtrack/internal/cli/ui"
	"github.com/satishbabariya/moodtrack/internal/repository"
	"github.com/satishbabariya/moodtrack/pkg/client"
)

type queryFlags struct {
	columns   []string
	filters   []string
	values    []string
	order     string
	single    bool
	all       bool
	run       bool
	noSchema  bool
	plainText bool
}

func newQueryCommand(app *App) *cobra.Command {
	var f queryFlags

	cmd := &cobra.Command{
		Use:   "query <select|insert|upsert|update|delete> <table>",
		Short: "Build a query and print its SQL",
		Long: `Build a query from flags and print the compiled SQL with its arguments.
With --run the query is executed and the result envelope is printed as JSON.

Values of --eq and --set are parsed as integers, booleans or null when
possible and are strings otherwise.`,
		Example: `  moodtrack query select mood_entries --eq user_id=u1 --order created_at:desc
  moodtrack query update therapist_tasks --set completed=true --eq id=t1 --run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := buildQuery(client.NewWithQuerier(nil).From(args[1]), args[0], f)
			if err != nil {
				return err
			}

			if !f.run {
				var opts []client.Option
				if !f.noSchema {
					opts = append(opts, client.WithSchema(repository.Schema()))
				}
				sql, err := client.NewWithQuerier(nil, opts...).Compile(b)
				if err != nil {
					return err
				}
				if f.plainText {
					fmt.Fprintln(ui.Out, sql.Query)
					for i, arg := range sql.Args {
						fmt.Fprintf(ui.Out, "$%d = %v\n", i+1, arg)
					}
					return nil
				}
				return ui.PrintSQL(sql.Query, sql.Args)
			}

			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			out, err := json.MarshalIndent(c.Execute(cmd.Context(), b), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(ui.Out, string(out))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&f.columns, "columns", nil, "Columns to select (default *)")
	flags.StringArrayVar(&f.filters, "eq", nil, "Equality filter column=value (repeatable)")
	flags.StringArrayVar(&f.values, "set", nil, "Payload column=value for insert, upsert and update (repeatable)")
	flags.StringVar(&f.order, "order", "", "Order by column[:asc|desc]")
	flags.BoolVar(&f.single, "single", false, "Expect a single row")
	flags.BoolVar(&f.all, "all", false, "Allow update or delete without filters")
	flags.BoolVar(&f.run, "run", false, "Execute the query")
	flags.BoolVar(&f.noSchema, "no-schema", false, "Do not check tables and columns against the moodtrack schema")
	flags.BoolVar(&f.plainText, "plain", false, "Print plain text instead of rendered markdown")

	return cmd
}

func buildQuery(b client.Builder, op string, f queryFlags) (client.Builder, error) {
	payload, err := parseAssignments(f.values)
	if err != nil {
		return b, err
	}

	switch strings.ToLower(op) {
	case "select":
		b = b.Select(f.columns...)
	case "insert":
		b = b.Insert(payload)
	case "upsert":
		b = b.Upsert(payload)
	case "update":
		b = b.Update(payload)
	case "delete":
		b = b.Delete()
	default:
		return b, fmt.Errorf("unknown operation %q", op)
	}

	for _, raw := range f.filters {
		column, value, err := parseAssignment(raw)
		if err != nil {
			return b, err
		}
		b = b.Eq(column, value)
	}

	if f.order != "" {
		column, dir, _ := strings.Cut(f.order, ":")
		switch strings.ToLower(dir) {
		case "", "asc":
			b = b.Order(column, true)
		case "desc":
			b = b.Order(column, false)
		default:
			return b, fmt.Errorf("order direction %q: want asc or desc", dir)
		}
	}
	if f.single {
		b = b.Single()
	}
	if f.all {
		b = b.AllowUnfiltered()
	}
	return b, nil
}

func parseAssignments(raw []string) (client.Record, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	rec := client.Record{}
	for _, r := range raw {
		column, value, err := parseAssignment(r)
		if err != nil {
			return nil, err
		}
		rec[column] = value
	}
	return rec, nil
}

func parseAssignment(raw string) (string, interface{}, error) {
	column, value, ok := strings.Cut(raw, "=")
	if !ok || column == "" {
		return "", nil, fmt.Errorf("%q: want column=value", raw)
	}
	return column, parseValue(value), nil
}

func parseValue(s string) interface{} {
	if s == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
