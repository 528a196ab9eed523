package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Security holds the policy knobs read by the authentication core. They are
// read at service construction time; changing them requires re-instantiating
// the services.
type Security struct {
	SessionTimeoutHours      int            `json:"session_timeout_hours"`
	PasswordMinLength        int            `json:"password_min_length"`
	PasswordRequireSpecial   bool           `json:"password_require_special"`
	PasswordRequireUppercase bool           `json:"password_require_uppercase"`
	PasswordRequireNumbers   bool           `json:"password_require_numbers"`
	MaxFailedAttempts        int            `json:"max_failed_attempts"`
	LockoutDurationMinutes   int            `json:"lockout_duration_minutes"`
	MaxConcurrentSessions    map[string]int `json:"max_concurrent_sessions"`
}

// UserInfo records the last successful login for the desktop clients'
// convenience display.
type UserInfo struct {
	LastLogin     string `json:"last_login"`
	LastLoginTime string `json:"last_login_time"`
}

// Settings is the persisted JSON settings file shared by all clients.
type Settings struct {
	Security Security `json:"security"`
	UserInfo UserInfo `json:"user_info"`

	mu   sync.Mutex
	path string
}

func defaultSecurity() Security {
	return Security{
		SessionTimeoutHours:      8,
		PasswordMinLength:        8,
		PasswordRequireSpecial:   true,
		PasswordRequireUppercase: true,
		PasswordRequireNumbers:   true,
		MaxFailedAttempts:        5,
		LockoutDurationMinutes:   30,
		MaxConcurrentSessions: map[string]int{
			"admin":          1,
			"data_warehouse": 1,
			"teacher":        1,
			"supervisor":     1,
		},
	}
}

// LoadSettings reads the settings file at path, creating it with defaults when
// it does not exist. Missing sections are filled in from defaults so older
// files keep working.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{Security: defaultSecurity(), path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.migrate()
	return s, nil
}

// migrate fills in sections missing from older settings files.
func (s *Settings) migrate() {
	def := defaultSecurity()
	if s.Security.SessionTimeoutHours == 0 {
		s.Security.SessionTimeoutHours = def.SessionTimeoutHours
	}
	if s.Security.PasswordMinLength == 0 {
		s.Security.PasswordMinLength = def.PasswordMinLength
	}
	if s.Security.MaxFailedAttempts == 0 {
		s.Security.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if s.Security.LockoutDurationMinutes == 0 {
		s.Security.LockoutDurationMinutes = def.LockoutDurationMinutes
	}
	if len(s.Security.MaxConcurrentSessions) == 0 {
		s.Security.MaxConcurrentSessions = def.MaxConcurrentSessions
	}
}

// SessionTimeout returns the configured idle timeout.
func (s *Settings) SessionTimeout() time.Duration {
	return time.Duration(s.Security.SessionTimeoutHours) * time.Hour
}

// LockoutWindow returns the trailing interval over which failed attempts count
// toward a lockout decision.
func (s *Settings) LockoutWindow() time.Duration {
	return time.Duration(s.Security.LockoutDurationMinutes) * time.Minute
}

// ConcurrentSessionLimit returns the per-role session limit, defaulting to 1
// for roles not listed in the settings file.
func (s *Settings) ConcurrentSessionLimit(role string) int {
	if limit, ok := s.Security.MaxConcurrentSessions[role]; ok {
		return limit
	}
	return 1
}

// UpdateLastLogin persists the most recent successful login for UI display.
func (s *Settings) UpdateLastLogin(username string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UserInfo.LastLogin = username
	s.UserInfo.LastLoginTime = at.Format("2006-01-02 15:04:05")
	return s.save()
}

func (s *Settings) save() error {
	if s.path == "" {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return err
	}
	// The file holds security policy; keep it owner-only.
	return os.WriteFile(s.path, data, 0o600)
}
