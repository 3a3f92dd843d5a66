package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrled/suns/msgsvc/internal/auth"
	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/validation"
)

// cleanEnv isolates a test from storage and auth settings in the environment
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DATA_FILE", "SQLITE_PATH", "BADGER_PATH", "DYNAMODB_TABLE", "DYNAMODB_ENDPOINT",
		"SNAPSHOT_BUCKET", "AUTH_JWT_SECRET", "AUTH_TOKEN_DURATION",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	t.Setenv("ENV_NAME", "dev")
	t.Setenv("LOG_LEVEL", "error")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// run executes the command tree and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type messageJSON struct {
	Message struct {
		ID         string `json:"id"`
		Content    string `json:"content"`
		Properties struct {
			Palindrome bool `json:"palindrome"`
			Length     int  `json:"length"`
		} `json:"properties"`
	} `json:"message"`
}

func createMessage(t *testing.T, file, content string) messageJSON {
	t.Helper()
	out, err := run(t, "messages", "create", content, "--file", file)
	require.NoError(t, err)
	var created messageJSON
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	return created
}

func TestMessagesLifecycle(t *testing.T) {
	cleanEnv(t)
	req := require.New(t)
	file := filepath.Join(t.TempDir(), "messages.json")

	created := createMessage(t, file, "Racecar")
	req.NotEmpty(created.Message.ID)
	req.True(created.Message.Properties.Palindrome)
	req.Equal(7, created.Message.Properties.Length)

	out, err := run(t, "messages", "get", created.Message.ID, "--file", file)
	req.NoError(err)
	var got messageJSON
	req.NoError(json.Unmarshal([]byte(out), &got))
	req.Equal(created.Message.ID, got.Message.ID)

	out, err = run(t, "messages", "update", created.Message.ID, "hello", "--file", file)
	req.NoError(err)
	var updated messageJSON
	req.NoError(json.Unmarshal([]byte(out), &updated))
	req.Equal("hello", updated.Message.Content)
	req.False(updated.Message.Properties.Palindrome)
	req.Equal(5, updated.Message.Properties.Length)

	out, err = run(t, "messages", "delete", created.Message.ID, "--file", file)
	req.NoError(err)
	req.Contains(out, "Deleted "+created.Message.ID)

	_, err = run(t, "messages", "get", created.Message.ID, "--file", file)
	req.ErrorIs(err, model.ErrNotFound)
	req.Equal(ExitNotFound, ExitCode(err))
}

func TestMessagesCreate_Invalid(t *testing.T) {
	cleanEnv(t)
	file := filepath.Join(t.TempDir(), "messages.json")

	_, err := run(t, "messages", "create", "   ", "--file", file)
	require.Error(t, err)
	require.Equal(t, ExitInvalid, ExitCode(err))
}

func TestMessagesList(t *testing.T) {
	cleanEnv(t)
	req := require.New(t)
	file := filepath.Join(t.TempDir(), "messages.json")

	for i := 0; i < 3; i++ {
		createMessage(t, file, fmt.Sprintf("message %d", i))
	}

	out, err := run(t, "messages", "list", "--file", file, "--limit", "2", "--output", "json")
	req.NoError(err)
	var page struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
		NextURL string `json:"next_url"`
		PrevURL string `json:"prev_url"`
	}
	req.NoError(json.Unmarshal([]byte(out), &page))
	req.Len(page.Messages, 2)
	req.Equal("message 0", page.Messages[0].Content)
	req.Equal("msgsvc messages list --page 2 --limit 2", page.NextURL)
	req.Empty(page.PrevURL)

	out, err = run(t, "messages", "list", "--file", file, "--page", "2", "--limit", "2")
	req.NoError(err)
	req.Contains(out, "message 2")
	req.Contains(out, "Page 2 (2 per page), 3 message(s) in total")
	req.NotContains(out, "Next:")

	_, err = run(t, "messages", "list", "--file", file, "--output", "xml")
	req.Error(err)
	req.Equal(ExitUsage, ExitCode(err))
}

func TestMessagesShow(t *testing.T) {
	cleanEnv(t)
	req := require.New(t)
	file := filepath.Join(t.TempDir(), "messages.json")

	createMessage(t, file, "racecar")
	createMessage(t, file, "hello world")
	createMessage(t, file, "Abba")

	out, err := run(t, "messages", "show", "--file", file, "--palindrome")
	req.NoError(err)
	req.Contains(out, "racecar")
	req.Contains(out, "Abba")
	req.NotContains(out, "hello world")
	req.Contains(out, "Total messages: 2")
	req.Contains(out, "Palindrome: true")

	out, err = run(t, "messages", "show", "--file", file, "--palindrome=false", "--format", "compact")
	req.NoError(err)
	req.Contains(out, "hello world")
	req.NotContains(out, "racecar")
	req.Contains(out, "Total messages: 1")

	out, err = run(t, "messages", "show", "--file", file, "--contains", "WORLD", "--max-length", "5")
	req.NoError(err)
	req.Contains(out, "No messages found")

	_, err = run(t, "messages", "show", "--file", file, "--format", "fancy")
	req.Equal(ExitUsage, ExitCode(err))
}

func TestExport_RequiresBucket(t *testing.T) {
	cleanEnv(t)
	file := filepath.Join(t.TempDir(), "messages.json")

	_, err := run(t, "export", "--file", file)
	require.Error(t, err)
	require.Contains(t, err.Error(), "SNAPSHOT_BUCKET")
	require.Equal(t, ExitUsage, ExitCode(err))
}

func TestToken(t *testing.T) {
	cleanEnv(t)
	req := require.New(t)

	_, err := run(t, "token")
	req.ErrorIs(err, auth.ErrNoSecret)
	req.Equal(ExitUsage, ExitCode(err))

	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	out, err := run(t, "token", "--subject", "alice", "--ttl", "5m")
	req.NoError(err)

	signer, err := auth.NewSigner("s3cret")
	req.NoError(err)
	claims, err := signer.ValidateToken(strings.TrimSpace(out))
	req.NoError(err)
	req.Equal("alice", claims.Subject)
	req.WithinDuration(time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, time.Minute)

	_, err = run(t, "token", "--ttl=-1m")
	req.Equal(ExitUsage, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), ExitFailure},
		{"explicit", ExitWithCode(7, errors.New("seven")), 7},
		{"usage", &UsageError{errors.New("bad flag")}, ExitUsage},
		{"not found", fmt.Errorf("message x: %w", model.ErrNotFound), ExitNotFound},
		{"invalid", fmt.Errorf("create: %w", validation.FieldErrors{"content": {"required"}}), ExitInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitWithCode_Nil(t *testing.T) {
	require.Nil(t, ExitWithCode(ExitFailure, nil))
}
