package handler

import "strings"

// validEmail applies the structural check used at signup: no whitespace,
// exactly one "@" with something before it, and a "." somewhere in the
// domain part with characters on both sides. Deliverability is not our
// problem; the welcome email will bounce on a dead address and that is
// logged and dropped.
func validEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return true
}
