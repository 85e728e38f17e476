package smr

import "testing"

func TestDefaultsettings(t *testing.T) {
	setts := Defaultsettings()
	if x := setts.Int64("memsize"); x != Defaultmemsize {
		t.Errorf("expected %v, got %v", Defaultmemsize, x)
	}
	if x := setts.Int64("memsize.max"); x <= 0 || x > Maxmemsize {
		t.Errorf("unexpected memsize.max %v", x)
	}
	if x := setts.Int64("freeset.size"); x != Defaultfreesetsize {
		t.Errorf("expected %v, got %v", Defaultfreesetsize, x)
	}
	if x := setts.Int64("release.size"); x != Defaultreleasesize {
		t.Errorf("expected %v, got %v", Defaultreleasesize, x)
	}
	if x := setts.String("tsincr"); x != "free" {
		t.Errorf("expected %q, got %q", "free", x)
	}
	if setts.Bool("memsize.double") == false {
		t.Errorf("expected doubling growth by default")
	}
	if setts.Bool("zeromemory") == true {
		t.Errorf("expected zeromemory off by default")
	}
}

func TestReadsettings(t *testing.T) {
	for _, incr := range []string{"alloc", "free", "both"} {
		setts := Defaultsettings()
		setts["tsincr"] = incr
		a := &Allocator{}
		a.readsettings(setts)
		switch incr {
		case "alloc":
			if !a.incralloc || a.incrfree {
				t.Errorf("unexpected policy for %q", incr)
			}
		case "free":
			if a.incralloc || !a.incrfree {
				t.Errorf("unexpected policy for %q", incr)
			}
		case "both":
			if !a.incralloc || !a.incrfree {
				t.Errorf("unexpected policy for %q", incr)
			}
		}
	}

	// panic cases
	for _, tc := range []struct {
		key   string
		value interface{}
	}{
		{"tsincr", "never"},
		{"freeset.size", int64(0)},
		{"release.size", int64(-1)},
	} {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("expected panic for %v=%v", tc.key, tc.value)
				}
			}()
			setts := Defaultsettings()
			setts[tc.key] = tc.value
			(&Allocator{}).readsettings(setts)
		}()
	}
}
