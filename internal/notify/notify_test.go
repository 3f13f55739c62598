package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/punkmint/internal/notify"
)

func TestHelpers(t *testing.T) {
	t.Parallel()

	var got []notify.Notice
	n := notify.NotifierFunc(func(x notify.Notice) { got = append(got, x) })

	notify.Infof(n, "connecting %d", 1)
	notify.Successf(n, "done")
	notify.Warnf(n, "Change the network to %s", "Mumbai")
	notify.Errorf(n, "boom")

	assert.Equal(t, []notify.Notice{
		{Level: notify.Info, Message: "connecting 1"},
		{Level: notify.Success, Message: "done"},
		{Level: notify.Warning, Message: "Change the network to Mumbai"},
		{Level: notify.Error, Message: "boom"},
	}, got)

	notify.Discard.Notify(notify.Notice{Message: "ignored"})
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "warning", notify.Warning.String())
	assert.Equal(t, "level(9)", notify.Level(9).String())
}

func TestBroadcaster(t *testing.T) {
	t.Parallel()

	var a, b []notify.Notice
	var hub notify.Broadcaster
	hub.Notify(notify.Notice{Message: "nobody listening"})

	hub.Attach(notify.NotifierFunc(func(n notify.Notice) { a = append(a, n) }))
	hub.Attach(notify.NotifierFunc(func(n notify.Notice) { b = append(b, n) }))
	notify.Warnf(&hub, "Change the network to Mumbai")

	assert.Len(t, a, 1)
	assert.Equal(t, a, b)
}
