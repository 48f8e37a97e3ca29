package service

import (
	"net/http"
	"testing"
)

func TestRedactor_IsSensitiveHeader(t *testing.T) {
	r := NewRedactor([]string{"X-Api-Key", "  "})

	tests := []struct {
		name string
		want bool
	}{
		{"Authorization", true},
		{"authorization", true},
		{"AUTHORIZATION", true},
		{"Proxy-Authorization", true},
		{"x-api-key", true},
		{"Content-Type", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.IsSensitiveHeader(tt.name); got != tt.want {
				t.Errorf("IsSensitiveHeader(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRedactor_RedactHeaders(t *testing.T) {
	r := NewRedactor(nil)
	h := http.Header{
		"Authorization":       {"Bearer abc", "Basic xyz"},
		"Proxy-Authorization": {"secret"},
		"Accept":              {"text/html", "application/json"},
		"Content-Type":        {"application/json"},
	}

	got := r.RedactHeaders(h)

	if got.Len() != 4 {
		t.Fatalf("expected 4 headers, got %d", got.Len())
	}
	wantOrder := []string{"Accept", "Authorization", "Content-Type", "Proxy-Authorization"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("header[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
	if v, _ := got.Get("authorization"); v != HeaderMask {
		t.Errorf("Authorization = %q, want mask", v)
	}
	if v, _ := got.Get("proxy-authorization"); v != HeaderMask {
		t.Errorf("Proxy-Authorization = %q, want mask", v)
	}
	if v, _ := got.Get("Accept"); v != "text/html,application/json" {
		t.Errorf("Accept = %q, want comma-joined values", v)
	}
}

func TestRedactor_RedactHeadersEmpty(t *testing.T) {
	got := NewRedactor(nil).RedactHeaders(nil)
	if got == nil || got.Len() != 0 {
		t.Errorf("expected empty non-nil headers, got %#v", got)
	}
}

func TestRedactor_RedactLine(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name string
		line string
		want string
	}{
		{"four chars", `"password": "abcd"`, `"password": "**"`},
		{"two chars", `"password": "ab"`, `"password": ""`},
		{"one char", `"password":"a"`, `"password":""`},
		{"compact json", `{"password":"secret123"}`, `{"password":"*******"}`},
		{"reset password", `{"resetPassword" : "n3w!pass"}`, `{"resetPassword" : "******"}`},
		{"symbols", `"password": "p@ss#(x)"`, `"password": "******"`},
		{"first match only", `{"password":"aaaa","password":"bbbb"}`, `{"password":"**","password":"bbbb"}`},
		{"unquoted key is untouched", `password=secret`, `password=secret`},
		{"no password", `{"user":"alice"}`, `{"user":"alice"}`},
		{"marker without quoted value", `{"password": null}`, `{"password": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactLine(tt.line); got != tt.want {
				t.Errorf("RedactLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestRedactor_RedactBody(t *testing.T) {
	r := NewRedactor(nil)

	body := "{\r\n  \"user\": \"alice\",\r\n  \"password\": \"hunter22\"\n}"
	want := "{\r\n  \"user\": \"alice\",\r\n  \"password\": \"******\"\n}"
	if got := r.RedactBody(body); got != want {
		t.Errorf("RedactBody() = %q, want %q", got, want)
	}

	plain := "nothing to see\nhere"
	if got := r.RedactBody(plain); got != plain {
		t.Errorf("RedactBody() changed body without passwords: %q", got)
	}
}

func TestMaskCredential(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"abcd"`, `"**"`},
		{`"ab"`, `""`},
		{`"a"`, `""`},
		{`""`, `""`},
		{`"secret123"`, `"*******"`},
	}
	for _, tt := range tests {
		if got := MaskCredential(tt.in); got != tt.want {
			t.Errorf("MaskCredential(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\nb\rc\nd\n\n")
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("SplitLines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
