package github

import "testing"

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"simple", "org/repo", "org/repo", false},
		{"dots and dashes", "some-org/my.repo_name", "some-org/my.repo_name", false},
		{"trims whitespace", "  org/repo  ", "org/repo", false},
		{"missing slash", "orgrepo", "", true},
		{"empty", "", "", true},
		{"empty owner", "/repo", "", true},
		{"empty repo", "org/", "", true},
		{"owner starts with hyphen", "-org/repo", "", true},
		{"owner too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa/repo", "", true},
		{"repo with slash keeps remainder", "org/repo/extra", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepoRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRepoRef(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
