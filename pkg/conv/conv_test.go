package conv

import "testing"

func TestConfigGetInt(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		want int
	}{
		{name: "yaml int", m: map[string]any{"n": 7}, want: 7},
		{name: "json float", m: map[string]any{"n": 7.9}, want: 7},
		{name: "int64", m: map[string]any{"n": int64(3)}, want: 3},
		{name: "wrong type", m: map[string]any{"n": "7"}, want: 5},
		{name: "missing", m: map[string]any{}, want: 5},
		{name: "nil map", m: nil, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfigGetInt(tt.m, "n", 5); got != tt.want {
				t.Errorf("ConfigGetInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"fallback": "recall.hot", "n": 3}
	if got := ConfigGet(m, "fallback", "none"); got != "recall.hot" {
		t.Errorf("ConfigGet() = %q", got)
	}
	if got := ConfigGet(m, "n", "none"); got != "none" {
		t.Errorf("ConfigGet() with mismatched type = %q, want default", got)
	}
	if got := ConfigGet[string](nil, "fallback", "none"); got != "none" {
		t.Errorf("ConfigGet() on nil map = %q, want default", got)
	}
}

func TestConfigGetStrings(t *testing.T) {
	m := map[string]any{
		"yaml":  []any{"Drama", 3, "Crime"},
		"typed": []string{"Comedy"},
		"bad":   "Drama",
	}
	if got := ConfigGetStrings(m, "yaml"); len(got) != 2 || got[0] != "Drama" || got[1] != "Crime" {
		t.Errorf("ConfigGetStrings(yaml) = %v", got)
	}
	if got := ConfigGetStrings(m, "typed"); len(got) != 1 || got[0] != "Comedy" {
		t.Errorf("ConfigGetStrings(typed) = %v", got)
	}
	if got := ConfigGetStrings(m, "bad"); got != nil {
		t.Errorf("ConfigGetStrings(bad) = %v, want nil", got)
	}
	if got := ConfigGetStrings(nil, "yaml"); got != nil {
		t.Errorf("ConfigGetStrings(nil) = %v, want nil", got)
	}
}
