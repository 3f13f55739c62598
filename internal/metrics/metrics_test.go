package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errRPC = errors.New("rpc failed")

func TestRecordRPCCall(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordRPCCall(10*time.Millisecond, nil)
	m.RecordRPCCall(30*time.Millisecond, errRPC)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.RPCCallsTotal)
	assert.Equal(t, int64(1), snap.RPCErrorsTotal)
	assert.InDelta(t, 20.0, m.RPCLatencyAvgMs(), 0.001)
}

func TestRPCLatencyAvgMs_NoCalls(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 0.0, (&Metrics{}).RPCLatencyAvgMs(), 0)
}

func TestMintAndPollCounters(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordMintStarted()
	m.RecordMintFinished(nil)
	m.RecordMintStarted()
	m.RecordMintFinished(errRPC)
	m.RecordPollTick(nil)
	m.RecordPollTick(errRPC)
	m.RecordPollTick(nil)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.MintAttempts)
	assert.Equal(t, int64(1), snap.MintSucceeded)
	assert.Equal(t, int64(1), snap.MintFailed)
	assert.Equal(t, int64(3), snap.PollTicks)
	assert.Equal(t, int64(1), snap.PollFailures)

	m.Reset()
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestConcurrentRecording(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordRPCCall(time.Millisecond, nil)
			m.RecordPollTick(nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.Snapshot().RPCCallsTotal)
	assert.Equal(t, int64(50), m.Snapshot().PollTicks)
}
