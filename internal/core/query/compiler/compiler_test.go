package compiler_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/satishbabariya/moodtrack/internal/core/query/builder"
	"github.com/satishbabariya/moodtrack/internal/core/query/compiler"
	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, b builder.Builder) domain.SQL {
	t.Helper()
	sql, err := compiler.NewSQLCompiler().Compile(b.Query())
	require.NoError(t, err)
	return sql
}

func TestCompiler_Statements(t *testing.T) {
	tests := []struct {
		name string
		b    builder.Builder
		want domain.SQL
	}{
		{
			name: "select all",
			b:    builder.ForTable("mood_entries").Select(),
			want: domain.SQL{Query: "SELECT * FROM mood_entries"},
		},
		{
			name: "select columns with filter and order",
			b: builder.ForTable("mood_entries").
				Select("id, mood_level ,note").
				Eq("user_id", "u1").
				Order("created_at", false),
			want: domain.SQL{
				Query: "SELECT id, mood_level, note FROM mood_entries WHERE user_id = $1 ORDER BY created_at DESC",
				Args:  []interface{}{"u1"},
			},
		},
		{
			name: "select single",
			b:    builder.ForTable("user_settings").Select().Eq("id", "u1").Single(),
			want: domain.SQL{
				Query: "SELECT * FROM user_settings WHERE id = $1 LIMIT 1",
				Args:  []interface{}{"u1"},
			},
		},
		{
			name: "insert",
			b:    builder.ForTable("t").Insert(domain.Record{"a": 1, "b": "x"}),
			want: domain.SQL{
				Query: "INSERT INTO t (a, b) VALUES ($1, $2) RETURNING *",
				Args:  []interface{}{1, "x"},
			},
		},
		{
			name: "upsert",
			b:    builder.ForTable("users").Upsert(domain.Record{"id": "u1", "email": "a@b.c"}),
			want: domain.SQL{
				Query: "INSERT INTO users (email, id) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, id = EXCLUDED.id RETURNING *",
				Args:  []interface{}{"a@b.c", "u1"},
			},
		},
		{
			name: "update",
			b: builder.ForTable("therapist_tasks").
				Update(domain.Record{"completed": true}).
				Eq("id", "t1").
				Eq("user_id", "u1"),
			want: domain.SQL{
				Query: "UPDATE therapist_tasks SET completed = $1 WHERE id = $2 AND user_id = $3 RETURNING *",
				Args:  []interface{}{true, "t1", "u1"},
			},
		},
		{
			name: "delete",
			b:    builder.ForTable("emergency_contacts").Delete().Eq("id", "c1"),
			want: domain.SQL{
				Query: "DELETE FROM emergency_contacts WHERE id = $1",
				Args:  []interface{}{"c1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compile(t, tt.b)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("compiled SQL mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompiler_FilterAccumulation(t *testing.T) {
	for n := 0; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d filters", n), func(t *testing.T) {
			b := builder.ForTable("mood_entries").Select()
			wantClauses := make([]string, 0, n)
			wantArgs := make([]interface{}, 0, n)
			for i := 0; i < n; i++ {
				col := fmt.Sprintf("c%d", i)
				b = b.Eq(col, i*10)
				wantClauses = append(wantClauses, fmt.Sprintf("%s = $%d", col, i+1))
				wantArgs = append(wantArgs, i*10)
			}

			sql := compile(t, b)

			if n == 0 {
				assert.NotContains(t, sql.Query, "WHERE")
				assert.Empty(t, sql.Args)
				return
			}
			assert.Equal(t, "SELECT * FROM mood_entries WHERE "+strings.Join(wantClauses, " AND "), sql.Query)
			assert.Equal(t, wantArgs, sql.Args)
			assert.Equal(t, n-1, strings.Count(sql.Query, " AND "))
		})
	}
}

func TestCompiler_UpdateParameterNumbering(t *testing.T) {
	tests := []struct {
		payloadKeys int
		filters     int
	}{
		{payloadKeys: 1, filters: 1},
		{payloadKeys: 3, filters: 2},
		{payloadKeys: 2, filters: 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("P=%d F=%d", tt.payloadKeys, tt.filters), func(t *testing.T) {
			payload := domain.Record{}
			var wantArgs []interface{}
			var wantSet []string
			for i := 0; i < tt.payloadKeys; i++ {
				key := fmt.Sprintf("k%d", i)
				payload[key] = fmt.Sprintf("v%d", i)
				wantSet = append(wantSet, fmt.Sprintf("%s = $%d", key, i+1))
				wantArgs = append(wantArgs, fmt.Sprintf("v%d", i))
			}

			b := builder.ForTable("t").Update(payload)
			var wantWhere []string
			for i := 0; i < tt.filters; i++ {
				col := fmt.Sprintf("f%d", i)
				b = b.Eq(col, i)
				wantWhere = append(wantWhere, fmt.Sprintf("%s = $%d", col, tt.payloadKeys+i+1))
				wantArgs = append(wantArgs, i)
			}

			sql := compile(t, b)

			want := fmt.Sprintf("UPDATE t SET %s WHERE %s RETURNING *",
				strings.Join(wantSet, ", "), strings.Join(wantWhere, " AND "))
			assert.Equal(t, want, sql.Query)
			assert.Equal(t, wantArgs, sql.Args)
		})
	}
}

func TestCompiler_Sanitization(t *testing.T) {
	sql := compile(t, builder.ForTable("users").Select().Order("name; DROP TABLE users", true))
	assert.Equal(t, "SELECT * FROM users ORDER BY nameDROPTABLEusers ASC", sql.Query)

	sql = compile(t, builder.ForTable("users;--").Select(`id, "email"`).Eq("na-me", "x"))
	assert.Equal(t, "SELECT id, email FROM users WHERE name = $1", sql.Query)

	sql = compile(t, builder.ForTable("t").Insert(domain.Record{"a) VALUES (1); --": 1}))
	assert.Equal(t, "INSERT INTO t (aVALUES1) VALUES ($1) RETURNING *", sql.Query)
}

func TestCompiler_SanitizeFunc(t *testing.T) {
	assert.Equal(t, "nameDROPTABLEusers", compiler.Sanitize("name; DROP TABLE users"))
	assert.Equal(t, "created_at", compiler.Sanitize("created_at"))
	assert.Equal(t, "", compiler.Sanitize("'; --"))
	assert.Equal(t, "abc", compiler.Sanitize("ä-a.b c"))
}

func TestCompiler_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    builder.Builder
		want error
	}{
		{
			name: "no operation",
			b:    builder.ForTable("users").Eq("id", 1),
			want: domain.ErrNoOperation,
		},
		{
			name: "insert without payload",
			b:    builder.ForTable("users").Insert(nil),
			want: domain.ErrMissingPayload,
		},
		{
			name: "upsert with empty payload",
			b:    builder.ForTable("users").Upsert(domain.Record{}),
			want: domain.ErrMissingPayload,
		},
		{
			name: "update without payload",
			b:    builder.ForTable("users").Update(nil).Eq("id", 1),
			want: domain.ErrMissingPayload,
		},
		{
			name: "update without filter",
			b:    builder.ForTable("users").Update(domain.Record{"x": 1}),
			want: domain.ErrUnfilteredMutation,
		},
		{
			name: "delete without filter",
			b:    builder.ForTable("users").Delete(),
			want: domain.ErrUnfilteredMutation,
		},
		{
			name: "empty table after sanitization",
			b:    builder.ForTable("--").Select(),
			want: domain.ErrEmptyIdentifier,
		},
		{
			name: "insert keys collide after sanitization",
			b:    builder.ForTable("t").Insert(domain.Record{"a-b": 1, "ab": 2}),
			want: domain.ErrDuplicateIdentifier,
		},
		{
			name: "upsert keys collide after sanitization",
			b:    builder.ForTable("t").Upsert(domain.Record{"id": 1, "x y": 2, "xy": 3}),
			want: domain.ErrDuplicateIdentifier,
		},
		{
			name: "update keys collide after sanitization",
			b:    builder.ForTable("t").Update(domain.Record{"note;": "a", "note": "b"}).Eq("id", 1),
			want: domain.ErrDuplicateIdentifier,
		},
		{
			name: "empty order column",
			b:    builder.ForTable("users").Select().Order(";", true),
			want: domain.ErrEmptyIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewSQLCompiler().Compile(tt.b.Query())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompiler_AllowUnfiltered(t *testing.T) {
	sql := compile(t, builder.ForTable("mood_entries").Delete().AllowUnfiltered())
	assert.Equal(t, "DELETE FROM mood_entries", sql.Query)
	assert.Empty(t, sql.Args)

	sql = compile(t, builder.ForTable("users").Update(domain.Record{"x": 1}).AllowUnfiltered())
	assert.Equal(t, "UPDATE users SET x = $1 RETURNING *", sql.Query)
}

func TestCompiler_Schema(t *testing.T) {
	schema := compiler.NewSchema().
		Table("users", "id", "email").
		Table("users", "name")
	comp := compiler.NewSQLCompiler(compiler.WithSchema(schema))

	assert.True(t, schema.Has("users", "id", "name"))
	assert.False(t, schema.Has("users", "age"))
	assert.False(t, schema.Has("posts"))

	sql, err := comp.Compile(builder.ForTable("users").Select("id, name").Eq("email", "a").Query())
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM users WHERE email = $1", sql.Query)

	_, err = comp.Compile(builder.ForTable("posts").Select().Query())
	assert.ErrorIs(t, err, domain.ErrUnknownIdentifier)

	_, err = comp.Compile(builder.ForTable("users").Select().Order("age", true).Query())
	assert.ErrorIs(t, err, domain.ErrUnknownIdentifier)

	_, err = comp.Compile(builder.ForTable("users").Insert(domain.Record{"password": "x"}).Query())
	assert.ErrorIs(t, err, domain.ErrUnknownIdentifier)
}
