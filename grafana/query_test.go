package grafana

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSelector(t *testing.T) {
	cases := []struct {
		tail string
		want Selector
	}{
		{tail: "cpu-metrics", want: Selector{Kind: SelectorNone}},
		{tail: "cpu-metrics:3", want: Selector{Kind: SelectorByOrdinal, Ordinal: 3}},
		{tail: "cpu-metrics:123", want: Selector{Kind: SelectorByOrdinal, Ordinal: 123}},
		{tail: "cpu-metrics:CPU", want: Selector{Kind: SelectorByName, Name: "cpu"}},
		{tail: "cpu-metrics:Memory Free", want: Selector{Kind: SelectorByName, Name: "memory"}},
		{tail: "cpu-metrics:", want: Selector{Kind: SelectorNone}},
	}
	for _, tc := range cases {
		q, err := Parser{}.Parse(tc.tail)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tc.tail, err)
		}
		if q.Selector != tc.want {
			t.Fatalf("Parse(%q) selector = %+v, want %+v", tc.tail, q.Selector, tc.want)
		}
	}
}

func TestParseTimeRangeAndVariables(t *testing.T) {
	q, err := Parser{}.Parse("mydash from1 var=v to1 var2=v2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if q.Range.From != "from1" || q.Range.To != "to1" {
		t.Fatalf("Parse() range = %+v, want from1/to1", q.Range)
	}
	if want := []string{"var=v", "var2=v2"}; !reflect.DeepEqual(q.Variables, want) {
		t.Fatalf("Parse() variables = %v, want %v", q.Variables, want)
	}
}

func TestParseKeepsDuplicateVariables(t *testing.T) {
	q, err := Parser{}.Parse("mydash host=a host=b host=a")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := []string{"host=a", "host=b", "host=a"}; !reflect.DeepEqual(q.Variables, want) {
		t.Fatalf("Parse() variables = %v, want %v", q.Variables, want)
	}
}

func TestParseIgnoresExtraPositionalTokens(t *testing.T) {
	q, err := Parser{}.Parse("mydash now-1h now now-2h now-3h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if q.Range.From != "now-1h" || q.Range.To != "now" {
		t.Fatalf("Parse() range = %+v, want now-1h/now", q.Range)
	}
}

func TestParseDefaults(t *testing.T) {
	q, err := Parser{}.Parse("mydash")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if q.Range.From != DefaultFrom || q.Range.To != DefaultTo {
		t.Fatalf("Parse() range = %+v, want defaults", q.Range)
	}

	q, err = Parser{Defaults: TimeRange{From: "now-24h"}}.Parse("mydash")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if q.Range.From != "now-24h" || q.Range.To != DefaultTo {
		t.Fatalf("Parse() range = %+v, want now-24h/%s", q.Range, DefaultTo)
	}
}

func TestParseEmptySlug(t *testing.T) {
	for _, tail := range []string{"", "   ", ":3"} {
		if _, err := (Parser{}).Parse(tail); !errors.Is(err, ErrInvalidCommand) {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidCommand", tail, err)
		}
	}
}
