package cash_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

func TestParseBound(t *testing.T) {
	lisbon, err := time.LoadLocation("Europe/Lisbon")
	require.NoError(t, err)

	type args struct {
		raw string
		end bool
		loc *time.Location
	}

	type testCase struct {
		name    string
		args    args
		want    *time.Time
		wantErr error
	}

	tests := []testCase{
		{
			name: "empty is no bound",
			args: args{raw: "", loc: time.UTC},
			want: nil,
		},
		{
			name: "blank is no bound",
			args: args{raw: "   ", end: true, loc: time.UTC},
			want: nil,
		},
		{
			name: "date-only start",
			args: args{raw: "2024-01-01", loc: time.UTC},
			want: new(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "date-only end",
			args: args{raw: "2024-01-01", end: true, loc: time.UTC},
			want: new(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)),
		},
		{
			name: "date-only uses location",
			args: args{raw: "2024-07-01", loc: lisbon},
			want: new(time.Date(2024, 7, 1, 0, 0, 0, 0, lisbon)),
		},
		{
			name: "nil location defaults to UTC",
			args: args{raw: "2024-01-01", end: true},
			want: new(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)),
		},
		{
			name: "RFC3339 passes through",
			args: args{raw: "2024-01-01T10:00:00Z", end: true, loc: lisbon},
			want: new(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)),
		},
		{
			name: "RFC3339 with offset and fraction",
			args: args{raw: "2024-01-01T10:00:00.5+01:00", loc: time.UTC},
			want: new(time.Date(2024, 1, 1, 9, 0, 0, 500_000_000, time.UTC)),
		},
		{
			name: "zoneless timestamp in location",
			args: args{raw: "2024-01-01T08:30:00", loc: time.UTC},
			want: new(time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)),
		},
		{
			name:    "garbage",
			args:    args{raw: "yesterday", loc: time.UTC},
			wantErr: cash.ErrInvalidDate,
		},
		{
			name:    "impossible date",
			args:    args{raw: "2024-02-30", end: true, loc: time.UTC},
			wantErr: cash.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cash.ParseBound(tt.args.raw, tt.args.end, tt.args.loc)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestClampToSession(t *testing.T) {
	closedAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	endOfDay := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	earlier := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	closed := &cash.Session{Status: cash.SessionClosed, ClosedAt: &closedAt}
	open := &cash.Session{Status: cash.SessionOpen}

	t.Run("clamps to closing time", func(t *testing.T) {
		got := cash.ClampToSession(&endOfDay, closed)
		require.NotNil(t, got)
		assert.True(t, closedAt.Equal(*got))
	})

	t.Run("keeps earlier bound", func(t *testing.T) {
		got := cash.ClampToSession(&earlier, closed)
		require.NotNil(t, got)
		assert.True(t, earlier.Equal(*got))
	})

	t.Run("open session unchanged", func(t *testing.T) {
		got := cash.ClampToSession(&endOfDay, open)
		require.NotNil(t, got)
		assert.True(t, endOfDay.Equal(*got))
	})

	t.Run("no bound stays unbounded", func(t *testing.T) {
		assert.Nil(t, cash.ClampToSession(nil, closed))
	})

	t.Run("does not alias session time", func(t *testing.T) {
		got := cash.ClampToSession(&endOfDay, closed)
		*got = got.Add(time.Hour)
		assert.True(t, closedAt.Equal(*closed.ClosedAt))
	})
}
