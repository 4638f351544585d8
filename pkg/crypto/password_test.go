package crypto

import (
	"strings"
	"testing"
)

// testArgon2 uses low-cost parameters so the suite stays fast; the
// encoding and verification paths are identical to production.
func testArgon2() *Argon2 {
	return &Argon2{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2_HashAndVerify(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		candidate string
		want      bool
	}{
		{name: "correct password", password: "hunter2", candidate: "hunter2", want: true},
		{name: "wrong password", password: "hunter2", candidate: "hunter3", want: false},
		{name: "empty candidate", password: "hunter2", candidate: "", want: false},
		{name: "unicode password", password: "pässwörd", candidate: "pässwörd", want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hasher := testArgon2()

			hash, err := hasher.Hash(test.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if !strings.HasPrefix(hash, "$argon2id$") {
				t.Fatalf("hash has unexpected format: %q", hash)
			}
			if strings.Contains(hash, test.password) {
				t.Fatal("hash contains the plaintext password")
			}

			got, err := hasher.Verify(test.candidate, hash)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got != test.want {
				t.Errorf("Verify() = %v, want %v", got, test.want)
			}
		})
	}
}

// Requirement: salts are random, so hashing the same password twice
// yields different encodings that both verify.
func TestArgon2_RandomSalt(t *testing.T) {
	hasher := testArgon2()

	first, err := hasher.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password are identical")
	}

	for _, h := range []string{first, second} {
		ok, err := hasher.Verify("hunter2", h)
		if err != nil || !ok {
			t.Errorf("Verify() = %v, %v; want true, nil", ok, err)
		}
	}
}

func TestArgon2_VerifyMalformedHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "not a hash", encoded: "plaintext"},
		{name: "wrong algorithm", encoded: "$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{name: "missing sections", encoded: "$argon2id$v=19$m=8192"},
		{name: "bad salt encoding", encoded: "$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := testArgon2().Verify("hunter2", test.encoded); err == nil {
				t.Error("Verify() accepted a malformed hash")
			}
		})
	}
}
