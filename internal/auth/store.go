package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"github.com/joho/godotenv"
)

const (
	envAccessToken  = "LINKEDIN_ACCESS_TOKEN"
	envRefreshToken = "LINKEDIN_REFRESH_TOKEN"
	envPersonURN    = "LINKEDIN_PERSON_URN"
)

// TokenStore keeps the credential between runs.
type TokenStore interface {
	Credential() domain.Credential
	Save(cred domain.Credential) error
}

// EnvStore persists credentials into a dotenv file, next to the rest of the
// operator's settings, so the next config load picks them up.
type EnvStore struct {
	path string

	mu   sync.Mutex
	cred domain.Credential
}

// NewEnvStore starts from the credential already loaded into the config.
func NewEnvStore(path string, initial domain.Credential) *EnvStore {
	return &EnvStore{path: path, cred: initial}
}

func (s *EnvStore) Credential() domain.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred
}

// Save merges the credential into the dotenv file. Other keys are kept;
// comments and ordering are not.
func (s *EnvStore) Save(cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := godotenv.Read(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", s.path, err)
		}
		env = map[string]string{}
	}

	env[envAccessToken] = cred.AccessToken
	if cred.RefreshToken != "" {
		env[envRefreshToken] = cred.RefreshToken
	}
	if cred.PersonURN != "" {
		env[envPersonURN] = cred.PersonURN
	}

	if err := godotenv.Write(env, s.path); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.cred = cred
	return nil
}
