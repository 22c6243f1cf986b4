package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/seedrec/core"
)

func TestTopNNode(t *testing.T) {
	items := []*core.Item{core.NewItem("1"), core.NewItem("2"), core.NewItem("3")}

	tests := []struct {
		name  string
		n     int
		limit int
		want  int
	}{
		{name: "explicit n", n: 2, limit: 5, want: 2},
		{name: "request limit", n: 0, limit: 1, want: 1},
		{name: "fewer items than limit", n: 0, limit: 5, want: 3},
		{name: "no limit", n: 0, limit: 0, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := core.NewRecommendContext("", core.Criteria{}, nil, tt.limit, nil)
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), rctx, items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("Process() returned %d items, want %d", len(out), tt.want)
			}
			for i, it := range out {
				if it != items[i] {
					t.Errorf("item %d reordered", i)
				}
			}
		})
	}
}
