package wallet

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"sync"

	"filippo.io/age"
)

// encrypt seals plaintext for a password-based age recipient. A zero
// workFactor keeps age's default scrypt cost.
func encrypt(plaintext []byte, password string, workFactor int) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if workFactor > 0 {
		recipient.SetWorkFactor(workFactor)
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// decrypt opens ciphertext sealed by encrypt.
func decrypt(ciphertext []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}
	return plaintext, nil
}

// secret holds raw key bytes in locked memory for the lifetime of a
// session and zeroes them on destroy.
type secret struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

func newSecret(src []byte) *secret {
	s := &secret{data: make([]byte, len(src))}
	copy(s.data, src)
	s.locked = mlock(s.data)
	runtime.SetFinalizer(s, (*secret).destroy)
	return s
}

func (s *secret) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// destroy is safe to call more than once.
func (s *secret) destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}
	zero(s.data)
	if s.locked {
		munlock(s.data)
		s.locked = false
	}
	s.data = nil
	runtime.SetFinalizer(s, nil)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
