package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConnectivityMonitorTestSuite struct {
	suite.Suite
}

func TestConnectivityMonitorSuite(t *testing.T) {
	suite.Run(t, new(ConnectivityMonitorTestSuite))
}

func (s *ConnectivityMonitorTestSuite) TestInitialState() {
	online := NewConnectivityMonitor(nil, 0, true)
	s.True(online.IsOnline())

	offline := NewConnectivityMonitor(nil, 0, false)
	s.False(offline.IsOnline())
}

func (s *ConnectivityMonitorTestSuite) TestSetOnlineDeduplicates() {
	monitor := NewConnectivityMonitor(nil, 0, true)
	transitions := monitor.Subscribe()

	monitor.SetOnline(true)
	monitor.SetOnline(true)
	select {
	case <-transitions:
		s.Fail("no transition expected for repeated same-value calls")
	case <-time.After(20 * time.Millisecond):
	}

	monitor.SetOnline(false)
	select {
	case online := <-transitions:
		s.False(online)
	case <-time.After(time.Second):
		s.Fail("expected a transition notification")
	}
}

func (s *ConnectivityMonitorTestSuite) TestEachTransitionNotifiedOnce() {
	monitor := NewConnectivityMonitor(nil, 0, false)
	transitions := monitor.Subscribe()

	monitor.SetOnline(true)
	monitor.SetOnline(false)
	monitor.SetOnline(true)

	expected := []bool{true, false, true}
	for _, want := range expected {
		select {
		case got := <-transitions:
			s.Equal(want, got)
		case <-time.After(time.Second):
			s.Fail("missing transition notification")
		}
	}
}

func (s *ConnectivityMonitorTestSuite) TestMultipleSubscribers() {
	monitor := NewConnectivityMonitor(nil, 0, true)
	first := monitor.Subscribe()
	second := monitor.Subscribe()

	monitor.SetOnline(false)

	for _, ch := range []<-chan bool{first, second} {
		select {
		case online := <-ch:
			s.False(online)
		case <-time.After(time.Second):
			s.Fail("subscriber missed the transition")
		}
	}
}
