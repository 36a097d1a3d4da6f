package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galihrivanto/tribfaucet/faucet"
)

const testAddress = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

var (
	rootOnce sync.Once
	testRoot *cobra.Command
)

// resetFlags clears values left over from the previous execution.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootOnce.Do(func() {
		testRoot = &cobra.Command{Use: "tribfaucet", SilenceUsage: true, SilenceErrors: true}
		AddFlags(testRoot)
		testRoot.AddCommand(FaucetCmd, WalletCmd)
	})
	root := testRoot
	resetFlags(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))

	err := root.Execute()
	return out.String(), err
}

func TestClaimThenCooldown(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"message":"sent"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	flags := []string{"--endpoint", server.URL + "/api/claim", "--data-dir", dir, "--log-level", "error"}

	out, err := execute(t, "faucet", "status", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Ready to claim")

	out, err = execute(t, append([]string{"faucet", "claim", testAddress}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Tokens claimed!")
	assert.Contains(t, out, "Tokens have been sent to your wallet!")
	assert.EqualValues(t, 1, calls.Load())

	out, err = execute(t, append([]string{"faucet", "claim", testAddress}, flags...)...)
	var blocked *faucet.CooldownActiveError
	require.ErrorAs(t, err, &blocked)
	assert.Contains(t, out, "Claim limit reached")
	assert.EqualValues(t, 1, calls.Load(), "no request while cooling down")

	out, err = execute(t, "faucet", "status", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Next claim in 23h 59m")
}

func TestDataDirFlagExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := execute(t, "faucet", "status", "--data-dir", "~/faucet-data")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(home, "faucet-data", "tribfaucet.db"))
	assert.NoDirExists(t, filepath.Join("~", "faucet-data"))
}

func TestClaimRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid address"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	out, err := execute(t, "faucet", "claim", testAddress, "--endpoint", server.URL, "--data-dir", dir, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, out, "Claim failed Invalid address")

	out, err = execute(t, "faucet", "status", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Ready to claim")
}

func TestClaimRejectsWrongLength(t *testing.T) {
	_, err := execute(t, "faucet", "claim", "0x1234", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address must be 42 characters, got 6")
}

func TestClaimUnknownClaimer(t *testing.T) {
	_, err := execute(t, "faucet", "claim", testAddress, "--claimer", "pigeon", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown claimer")
}

func TestClaimIntoGeneratedWallet(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.URL.Query().Get("address"))
		w.Write([]byte(`{"message":"sent"}`))
	}))
	defer server.Close()

	dir := t.TempDir()

	_, err := execute(t, "faucet", "claim", "--endpoint", server.URL, "--data-dir", dir)
	require.ErrorIs(t, err, ErrNoAddress)

	out, err := execute(t, "wallet", "generate", "--data-dir", dir)
	require.NoError(t, err)
	address := strings.SplitN(out, "\n", 2)[0]
	require.Len(t, address, 42)
	assert.FileExists(t, filepath.Join(dir, "wallet.key"))

	_, err = execute(t, "wallet", "generate", "--data-dir", dir)
	require.Error(t, err, "existing wallet is not replaced without --force")

	out, err = execute(t, "wallet", "address", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, address+"\n", out)

	_, err = execute(t, "faucet", "claim", "--endpoint", server.URL, "--data-dir", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, address, got.Load())
}
