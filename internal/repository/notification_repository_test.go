package repository

import "testing"

func TestClearScope(t *testing.T) {
	full := clearScope(7, false)
	if full["user_id"] != uint(7) {
		t.Fatalf("user_id = %v, want 7", full["user_id"])
	}
	if _, has := full["is_read"]; has {
		t.Fatal("clear-all scope must not filter on is_read; unread rows would survive")
	}

	readOnly := clearScope(7, true)
	if v, has := readOnly["is_read"]; !has || v != true {
		t.Fatalf("read-only scope is_read = %v, want true", v)
	}
}
