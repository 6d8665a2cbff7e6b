package cvode

import "testing"

func TestRhsResultStatus(t *testing.T) {
	tests := []struct {
		name string
		res  RhsResult
		want int
	}{
		{"ok", RhsOk(), 0},
		{"recoverable", RecoverableError(3), 3},
		{"recoverable normalized", RecoverableError(0), 1},
		{"recoverable negative normalized", RecoverableError(-4), 1},
		{"non-recoverable", NonRecoverableError(2), -2},
		{"non-recoverable normalized", NonRecoverableError(0), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.status(); got != tt.want {
				t.Errorf("status() = %d, want %d", got, tt.want)
			}
		})
	}
}
