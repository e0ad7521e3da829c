package elevation

import "testing"

func TestProcessElevation(t *testing.T) {
	tests := []struct {
		name    string
		uid     int
		capable bool
		want    bool
	}{
		{"root", 0, false, true},
		{"net admin capability", 1000, true, true},
		{"unprivileged", 1000, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ProcessElevationImpl{
				getuid:  func() int { return tt.uid },
				capable: func() bool { return tt.capable },
			}
			if got := p.IsElevated(); got != tt.want {
				t.Fatalf("IsElevated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewProcessElevation_DoesNotPanic(t *testing.T) {
	_ = NewProcessElevation().IsElevated()
}
