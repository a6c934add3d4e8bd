package password

import "testing"

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "entrenamiento123"},
		{name: "special chars", password: "p@ssw0rd!#$%"},
		{name: "short password", password: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			if err != nil {
				t.Fatalf("GetHash() error = %v", err)
			}
			if hash == "" {
				t.Error("GetHash() returned empty hash")
			}
			if err := CompareHash(hash, tt.password); err != nil {
				t.Errorf("generated hash does not match original password: %v", err)
			}
		})
	}
}

func TestCompareHash(t *testing.T) {
	hash, err := GetHash("correct_password")
	if err != nil {
		t.Fatalf("failed to create test hash: %v", err)
	}

	if err := CompareHash(hash, "correct_password"); err != nil {
		t.Errorf("CompareHash() rejected matching password: %v", err)
	}
	if err := CompareHash(hash, "wrong_password"); err == nil {
		t.Error("CompareHash() accepted wrong password")
	}
	if err := CompareHash("not-a-bcrypt-hash", "correct_password"); err == nil {
		t.Error("CompareHash() accepted malformed hash")
	}
}
