package typeid

import "testing"

func TestFromName(t *testing.T) {
	tests := []struct {
		name string
		want ID
	}{
		{"a", 0xaf63dc4c8601ec8c},
		{"foobar", 0x85944171f73967e8},
		{"", 0},
	}

	for _, tt := range tests {
		if got := FromName(tt.name); got != tt.want {
			t.Errorf("FromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFromNameStable(t *testing.T) {
	a := FromName("app::Widget")
	b := FromName("app::Widget")
	if a != b {
		t.Errorf("ids differ: %v vs %v", a, b)
	}
	if a == FromName("app::Gadget") {
		t.Error("distinct names should produce distinct ids")
	}
}

func TestAddPointer(t *testing.T) {
	id := FromName("int")
	if id.AddPointer() != FromName("int *") {
		t.Errorf("AddPointer should hash as if \" *\" were appended to the name")
	}
	if id.AddPointer() == id {
		t.Error("pointer id should differ from pointee id")
	}
}

func TestNone(t *testing.T) {
	if None.Valid() {
		t.Error("None should not be valid")
	}
	if !FromName("int").Valid() {
		t.Error("real id should be valid")
	}
	if None.String() != "none" {
		t.Errorf("String() = %q, want none", None.String())
	}
}

func TestCompare(t *testing.T) {
	if ID(1).Compare(2) >= 0 || ID(2).Compare(1) <= 0 || ID(3).Compare(3) != 0 {
		t.Error("Compare should order numerically")
	}
}
