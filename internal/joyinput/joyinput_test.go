package joyinput

import "testing"

func TestParseEmptyRecord(t *testing.T) {
	f, err := Parse("|..|", TypeNone, TypeNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Power || f.Reset {
		t.Fatalf("got %+v, want no flags set", f)
	}
}

func TestParseResetFlag(t *testing.T) {
	f, err := Parse("|.r|", TypeNone, TypeNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Reset || f.Power {
		t.Fatalf("got %+v, want reset only", f)
	}
}

func TestParseStandardAButton(t *testing.T) {
	f, err := Parse("|..|.......A|", TypeStandard, TypeNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Port1&0x01 == 0 {
		t.Fatalf("port1 %08x, want bit 0 set", f.Port1)
	}
	if f.Port1&0xFFFFFF00 != 0xFFFFFF00 {
		t.Fatalf("port1 %08x, want open-bus tail set", f.Port1)
	}
}

func TestParseFourScoreEncoding(t *testing.T) {
	f, err := Parse("|..|.......A|........|", TypeFourScore1, TypeFourScore2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantPort1 := uint32(0x01) | (1 << 19) | (0xFF << 24)
	if f.Port1 != wantPort1 {
		t.Fatalf("port1 %08x, want %08x", f.Port1, wantPort1)
	}
	wantPort2 := uint32(1 << 18)
	if f.Port2 != wantPort2 {
		t.Fatalf("port2 %08x, want %08x", f.Port2, wantPort2)
	}
}

func TestParseRejectsBadGroupLength(t *testing.T) {
	if _, err := Parse("|..|...A|", TypeStandard, TypeNone); err == nil {
		t.Fatal("expected error for short joypad field")
	}
}

func TestParseRejectsUnknownLetter(t *testing.T) {
	if _, err := Parse("|..|X.......|", TypeStandard, TypeNone); err == nil {
		t.Fatal("expected error for mismatched letter position")
	}
}

func TestParseRejectsMissingPipes(t *testing.T) {
	if _, err := Parse("..|.......A|", TypeStandard, TypeNone); err == nil {
		t.Fatal("expected error for missing leading pipe")
	}
}
