package sqlkit

import "testing"

func TestToUnderscore(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"FullName":    "full_name",
		"PostComment": "post_comment",
		"Id":          "id",
		"UserId":      "user_id",
		"Address1":    "address1",
		"":            "",
	}
	for in, want := range cases {
		if got := ToUnderscore(in); got != want {
			t.Errorf("ToUnderscore(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToPascal(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"full_name":    "FullName",
		"post_comment": "PostComment",
		"id":           "Id",
		"":             "",
	}
	for in, want := range cases {
		if got := ToPascal(in); got != want {
			t.Errorf("ToPascal(%q) = %q, want %q", in, got, want)
		}
	}
}
