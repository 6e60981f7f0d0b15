package main

import (
	"reflect"
	"testing"
)

func TestExpandHostRange(t *testing.T) {
	tests := []struct {
		in      string
		out     []string
		wantErr bool
	}{
		{"host[1-2,4-5]", []string{"host1", "host2", "host4", "host5"}, false},
		{"host[01-03]", []string{"host01", "host02", "host03"}, false},
		{"host[5-5]", []string{"host5"}, false},
		{"host 1-2", nil, true},
		{"host[1-2", nil, true},
		{"host[1]", nil, true},
	}
	for _, test := range tests {
		got, err := expandHostRange(test.in)
		if (err != nil) != test.wantErr {
			t.Errorf("expandHostRange(%q) err = %v, wantErr %v", test.in, err, test.wantErr)
			continue
		}
		if err == nil && !reflect.DeepEqual(got, test.out) {
			t.Errorf("expandHostRange(%q) = %v, want %v", test.in, got, test.out)
		}
	}
}

func TestSplitHostlist(t *testing.T) {
	got := splitHostlist("  host1  host2 host3 ")
	want := []string{"host1", "host2", "host3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitHostlist = %v, want %v", got, want)
	}
}

func TestDedupeHosts(t *testing.T) {
	got := dedupeHosts([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeHosts = %v, want %v", got, want)
	}
}
