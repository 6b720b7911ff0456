package vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/bitvpn/command"
	"github.com/yllada/bitvpn/command/commandtest"
	"github.com/yllada/bitvpn/common"
)

const bw = "bw --nointeraction --raw"

func ok(stdout string) commandtest.Response {
	return commandtest.Response{Stdout: stdout}
}

func fail(stderr string) commandtest.Response {
	return commandtest.Response{Stderr: stderr, ExitCode: 1}
}

func unlocked(t *testing.T, runner *commandtest.FakeRunner) *Client {
	t.Helper()
	runner.On(ok("session-token\n"), "bw", "--nointeraction", "--raw", "unlock", "hunter2")
	client := NewClient(runner)
	_, err := client.Unlock(context.Background(), "hunter2")
	require.NoError(t, err)
	return client
}

func TestIsLoggedIn(t *testing.T) {
	runner := commandtest.NewFakeRunner().
		On(ok(""), "bw", "--nointeraction", "--raw", "login", "--check")
	assert.True(t, NewClient(runner).IsLoggedIn(context.Background()))

	runner = commandtest.NewFakeRunner().
		On(fail("You are not logged in."), "bw", "--nointeraction", "--raw", "login", "--check")
	assert.False(t, NewClient(runner).IsLoggedIn(context.Background()))
}

func TestLogin(t *testing.T) {
	runner := commandtest.NewFakeRunner().
		On(ok(""), "bw", "--nointeraction", "--raw", "login", "me@example.com", "hunter2")

	require.NoError(t, NewClient(runner).Login(context.Background(), "me@example.com", "hunter2", "", 0))
	assert.Equal(t, []string{bw + " login me@example.com hunter2"}, runner.Lines())
}

func TestLogin_TwoFactor(t *testing.T) {
	runner := commandtest.NewFakeRunner().
		On(ok(""), "bw", "--nointeraction", "--raw", "login", "me@example.com", "hunter2",
			"--method", "1", "--code", "123456")

	require.NoError(t, NewClient(runner).Login(context.Background(), "me@example.com", "hunter2", "123456", 1))
}

func TestLogin_Failure(t *testing.T) {
	runner := commandtest.NewFakeRunner().
		On(fail("Username or password is incorrect."), "bw", "--nointeraction", "--raw", "login", "me@example.com", "bad")

	err := NewClient(runner).Login(context.Background(), "me@example.com", "bad", "", 0)

	var cmdErr *command.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Contains(t, err.Error(), "Username or password is incorrect.")
}

func TestUnlockLockLogout(t *testing.T) {
	runner := commandtest.NewFakeRunner().
		On(ok(""), "bw", "--nointeraction", "--raw", "lock").
		On(ok(""), "bw", "--nointeraction", "--raw", "logout")
	client := unlocked(t, runner)
	assert.True(t, client.Unlocked())

	require.NoError(t, client.Lock(context.Background()))
	assert.False(t, client.Unlocked())

	client = unlocked(t, runner)
	require.NoError(t, client.Logout(context.Background()))
	assert.False(t, client.Unlocked())
}

func TestLock_ClearsSessionEvenOnFailure(t *testing.T) {
	runner := commandtest.NewFakeRunner()
	client := unlocked(t, runner)

	assert.Error(t, client.Lock(context.Background()))
	assert.False(t, client.Unlocked())
}

func TestInvoke_RequiresSession(t *testing.T) {
	runner := commandtest.NewFakeRunner()

	_, err := NewClient(runner).Invoke(context.Background(), "get", "password", "Work VPN")

	assert.ErrorIs(t, err, common.ErrVaultLocked)
	assert.Empty(t, runner.Calls)
}

func TestInvoke_PassesSession(t *testing.T) {
	runner := commandtest.NewFakeRunner().
		On(ok("[]\n"), "bw", "--nointeraction", "--raw", "list", "--session", "session-token", "items", "--search", "vpn")
	client := unlocked(t, runner)

	out, err := client.Invoke(context.Background(), "list", "items", "--search", "vpn")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestCredential(t *testing.T) {
	tests := []struct {
		name     string
		password commandtest.Response
		totp     commandtest.Response
		want     string
		wantErr  bool
	}{
		{
			name:     "password and totp",
			password: ok("s3cret\n"),
			totp:     ok("123456\n"),
			want:     "s3cret123456",
		},
		{
			name:     "totp fails",
			password: ok("s3cret\n"),
			totp:     fail("No TOTP available for this login."),
			want:     "s3cret",
		},
		{
			name:     "password fails",
			password: fail("Not found."),
			totp:     ok("123456\n"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := commandtest.NewFakeRunner().
				On(tt.password, "bw", "--nointeraction", "--raw", "get", "--session", "session-token", "password", "Work VPN").
				On(tt.totp, "bw", "--nointeraction", "--raw", "get", "--session", "session-token", "totp", "Work VPN")
			client := unlocked(t, runner)

			got, err := client.Credential(context.Background(), "Work VPN")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredential_PasswordFailureSkipsTOTP(t *testing.T) {
	runner := commandtest.NewFakeRunner()
	client := unlocked(t, runner)

	_, err := client.Credential(context.Background(), "Work VPN")
	require.Error(t, err)
	assert.Equal(t, 0, runner.CountPrefix(bw+" get --session session-token totp"))
}

func TestCredential_OTPAuthURI(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	runner := commandtest.NewFakeRunner().
		On(ok("s3cret"), "bw", "--nointeraction", "--raw", "get", "--session", "session-token", "password", "Work VPN").
		On(ok("otpauth://totp/VPN:me?secret="+secret+"&issuer=VPN"),
			"bw", "--nointeraction", "--raw", "get", "--session", "session-token", "totp", "Work VPN")
	client := unlocked(t, runner)
	client.now = func() time.Time { return now }

	want, err := totp.GenerateCode(secret, now)
	require.NoError(t, err)

	got, err := client.Credential(context.Background(), "Work VPN")
	require.NoError(t, err)
	assert.Equal(t, "s3cret"+want, got)
}
