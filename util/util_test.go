package util

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/sirkon/deepequal"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	if want := []string{"1", "2", "3"}; !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "mapped", want, got)
	}

	if got := Map(nil, strconv.Itoa); len(got) != 0 {
		t.Errorf("mapping nothing produced %v", got)
	}
}

func TestFilter(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if want := []int{2, 4}; !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "filtered", want, got)
	}

	if got := Filter([]int{1, 3}, func(n int) bool { return n%2 == 0 }); got != nil {
		t.Errorf("expected no elements but got %v", got)
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]int{"llvm": 1, "c": 0, "yaml": 3, "ir": 2})
	if want := []string{"c", "ir", "llvm", "yaml"}; !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "keys", want, got)
	}
}
