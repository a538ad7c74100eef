package link

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/vlc.go/pkg/l0/fec"
	"github.com/robotalks/vlc.go/pkg/l0/pru"
	"github.com/robotalks/vlc.go/pkg/l1/peer"
	"github.com/robotalks/vlc.go/pkg/l1/transceiver"
)

func testConfig(scheme fec.SchemeID) *transceiver.Config {
	conf := transceiver.NewConfig()
	conf.Scheme = scheme.String()
	conf.SlotCount = 100
	return conf
}

func TestSelfTest(t *testing.T) {
	tests := []struct {
		name   string
		scheme fec.SchemeID
		ber    float64
	}{
		{"clean", fec.SchemeGolay23, 0},
		{"golay23", fec.SchemeGolay23, 0.001},
		{"golay24", fec.SchemeGolay24, 0.001},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := SelfTest(context.Background(), testConfig(test.scheme), 1000, test.ber, 7)
			require.NoError(t, err)
			require.Equal(t, 1000, res.Sent)
			require.Equal(t, 1000, res.Received)
			require.Zero(t, res.BitErrors)
			require.Equal(t, "done", res.Transmit.State)
			require.Equal(t, "done", res.Receive.State)
			if test.ber > 0 {
				require.True(t, res.Receive.CorrectedBits > 0)
			} else {
				require.Zero(t, res.Receive.CorrectedBits)
			}
		})
	}
}

func TestSelfTestTooLarge(t *testing.T) {
	_, err := SelfTest(context.Background(), testConfig(fec.SchemeGolay23), 4001, 0, 1)
	require.Error(t, err)
}

func TestSendRecvFile(t *testing.T) {
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "in.txt"), filepath.Join(dir, "out.txt")
	data := bytes.Repeat([]byte("light "), 300)
	require.NoError(t, os.WriteFile(src, data, 0644))

	medium := pru.NewMemoryMedium()
	run := func(op func(*transceiver.Transceiver, context.Context) error) (string, chan error) {
		l, err := peer.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		tr, err := transceiver.New(peer.NewSocket(l), pru.NewSim(medium), testConfig(fec.SchemeGolay24))
		require.NoError(t, err)
		errCh := make(chan error, 1)
		go func() { errCh <- op(tr, context.Background()) }()
		return "tcp://" + l.Addr().String(), errCh
	}

	url, errCh := run((*transceiver.Transceiver).Transmit)
	sent, err := SendFile(url, src)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), sent.Bytes)
	require.NoError(t, <-errCh)

	url, errCh = run((*transceiver.Transceiver).Receive)
	recv, err := RecvFile(url, dst)
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	require.Equal(t, int64(len(data)), recv.Bytes)
	out, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, data, out)
}
