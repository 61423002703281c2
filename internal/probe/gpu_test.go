package probe

import "testing"

func TestAV1Capable(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"NVIDIA GeForce RTX 3080", true},
		{"NVIDIA GeForce RTX 4090", true},
		{"NVIDIA GeForce RTX 5070 Ti", true},
		{"NVIDIA RTX 6000 Ada", true},
		{"NVIDIA RTX 2000 Ada", true},
		{"NVIDIA L4", true},
		{"NVIDIA L40S", true},
		{"NVIDIA GeForce GTX 1080", false},
		{"NVIDIA GeForce RTX 2080 Ti", false},
		{"NVIDIA T400", false},
	}
	for _, tt := range tests {
		if got := AV1Capable(tt.name); got != tt.want {
			t.Errorf("AV1Capable(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestVendorName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"0x10de", "NVIDIA"},
		{"0x10DE", "NVIDIA"},
		{"0x1002", "AMD"},
		{"0x8086", "Intel"},
		{"0x1234", ""},
	}
	for _, tt := range tests {
		if got := vendorName(tt.id); got != tt.want {
			t.Errorf("vendorName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
