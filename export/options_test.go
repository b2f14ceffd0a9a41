package export

import "testing"

func TestOptionsSet(t *testing.T) {
	cases := []struct {
		key   string
		value string
		check func(Options) bool
	}{
		{"tiaExportType", "CRUSHED", func(o Options) bool { return o.Type == CRUSHED }},
		{"tiaExportType", "basicx", func(o Options) bool { return o.Type == BASICX }},
		{"debugOutput", "true", func(o Options) bool { return o.DebugOutput }},
		{"stackDepth", "3", func(o Options) bool { return o.StackDepth == 3 }},
		{"literalDictSize", "128", func(o Options) bool { return o.LiteralDictSize == 128 }},
		{"sequenceDictSize", "32", func(o Options) bool { return o.SequenceDictSize == 32 }},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			o := DefaultOptions()
			if err := o.Set(tc.key, tc.value); err != nil {
				t.Fatal(err)
			}
			if !tc.check(o) {
				t.Errorf("option %s=%s not applied: %+v", tc.key, tc.value, o)
			}
		})
	}
}

func TestOptionsSetRejects(t *testing.T) {
	o := DefaultOptions()
	if err := o.Set("tiaExportType", "ZIPPED"); err == nil {
		t.Error("want error for unknown export type")
	}
	if err := o.Set("stackDepth", "0"); err == nil {
		t.Error("want error for non-positive stack depth")
	}
	if err := o.Set("frobnicate", "1"); err == nil {
		t.Error("want error for unknown key")
	}
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"RAW", "BASIC", "BASICX", "DELTA", "COMPACT", "CRUSHED"} {
		mode, err := ParseMode(name)
		if err != nil {
			t.Errorf("ParseMode(%s): %v", name, err)
		}
		if mode.String() != name {
			t.Errorf("ParseMode(%s).String() = %s", name, mode)
		}
	}
}
