package validate

import "testing"

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name@example.com", "x+y@sub.domain.org"}
	for _, e := range valid {
		if !Email(e) {
			t.Errorf("Email(%q) = false", e)
		}
	}
	invalid := []string{"", "a@b", "no-at-sign.com", "sp ace@x.co", "@x.co", "a@.c"}
	for _, e := range invalid {
		if Email(e) {
			t.Errorf("Email(%q) = true", e)
		}
	}
}

func TestPassword(t *testing.T) {
	valid := []string{"Abcdef1!", "Xx1!Xx1!Xx1!", "P@ssw0rdP@ssw0rd!A20"}
	for _, pw := range valid {
		if !Password(pw) {
			t.Errorf("Password(%q) = false", pw)
		}
	}
	invalid := []string{
		"",
		"Ab1!xyz",                // 7 chars
		"abcdefg1!",              // no upper
		"ABCDEFG1!",              // no lower
		"Abcdefgh!",              // no digit
		"Abcdefgh1",              // no special
		"Abcdef1!Abcdef1!Abcd1!", // 22 chars
	}
	for _, pw := range invalid {
		if Password(pw) {
			t.Errorf("Password(%q) = true", pw)
		}
	}
}

func TestNickname(t *testing.T) {
	if ok, _ := Nickname("mango"); !ok {
		t.Errorf("Nickname(mango) rejected")
	}
	if ok, msg := Nickname(""); ok || msg == "" {
		t.Errorf("empty nickname: ok=%v msg=%q", ok, msg)
	}
	if ok, msg := Nickname("has space"); ok || msg == "" {
		t.Errorf("spaced nickname: ok=%v msg=%q", ok, msg)
	}
	if ok, msg := Nickname("elevenchars"); ok || msg == "" {
		t.Errorf("long nickname: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := Nickname("exactly10c"); !ok {
		t.Errorf("10-char nickname rejected")
	}
}
