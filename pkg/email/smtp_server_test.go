package email_test

import (
	"bufio"
	"io"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
)

// fakeSMTP is a minimal SMTP endpoint for exercising the transport.
type fakeSMTP struct {
	ln net.Listener

	// behaviour switches, set before the first connection
	stall      bool // accept and never greet
	rejectAuth bool
	rejectRcpt bool
	noAuth     bool

	mu       sync.Mutex
	messages []string
	authLine string
	wg       sync.WaitGroup
	done     chan struct{}
}

func newFakeSMTP(t *testing.T, configure func(*fakeSMTP)) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &fakeSMTP{ln: ln, done: make(chan struct{})}
	if configure != nil {
		configure(s)
	}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.close)
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) close() {
	close(s.done)
	_ = s.ln.Close()
	s.wg.Wait()
}

func (s *fakeSMTP) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *fakeSMTP) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			if s.stall {
				// Hold the connection until the client gives up or the test ends.
				go func() {
					<-s.done
					_ = conn.Close()
				}()
				_, _ = io.Copy(io.Discard, conn)
				return
			}
			s.handle(conn)
		}()
	}
}

func (s *fakeSMTP) handle(conn net.Conn) {
	tp := textproto.NewConn(conn)
	reply := func(lines ...string) {
		for _, l := range lines {
			_ = tp.PrintfLine("%s", l)
		}
	}

	reply("220 localhost ESMTP fake")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch verb {
		case "EHLO", "HELO":
			if s.noAuth {
				reply("250-localhost", "250 8BITMIME")
			} else {
				reply("250-localhost", "250-8BITMIME", "250 AUTH PLAIN LOGIN")
			}
		case "AUTH":
			s.mu.Lock()
			s.authLine = line
			s.mu.Unlock()
			if s.rejectAuth {
				reply("535 5.7.8 Username and Password not accepted")
			} else {
				reply("235 2.7.0 Accepted")
			}
		case "MAIL":
			reply("250 2.1.0 OK")
		case "RCPT":
			if s.rejectRcpt {
				reply("550 5.1.1 The email account that you tried to reach does not exist")
			} else {
				reply("250 2.1.5 OK")
			}
		case "DATA":
			reply("354 Go ahead")
			data, err := io.ReadAll(bufio.NewReader(tp.DotReader()))
			if err != nil {
				return
			}
			s.mu.Lock()
			s.messages = append(s.messages, string(data))
			s.mu.Unlock()
			reply("250 2.0.0 OK queued")
		case "RSET", "NOOP":
			reply("250 OK")
		case "QUIT":
			reply("221 2.0.0 closing connection")
			return
		default:
			reply("502 5.5.1 Unrecognized command")
		}
	}
}
