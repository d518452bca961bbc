//go:build linux

package channel

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// baudRates maps the bits/second values spec.md's serial transport
// exposes to the termios speed constants golang.org/x/sys/unix defines.
var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// SerialPort is a DNP3 serial channel: an 8N1 raw termios line at a
// fixed baud rate, read and written a byte stream exactly like a TCP
// socket once opened. Grounded on the teacher's
// pkg/can/socketcanv2.Bus, which also opens a raw file descriptor with
// golang.org/x/sys/unix and wraps it in an *os.File for ordinary
// Read/Write; here unix.IoctlGetTermios/SetTermios replace socketcanv2's
// unix.Bind/SetsockoptTimeval as the device-specific setup step.
type SerialPort struct {
	*os.File
	fd int
}

// OpenSerialPort opens path (e.g. "/dev/ttyUSB0") and configures it for
// raw 8N1 communication at baudRate, per spec.md's serial transport.
func OpenSerialPort(path string, baudRate int) (*SerialPort, error) {
	speed, ok := baudRates[baudRate]
	if !ok {
		return nil, fmt.Errorf("channel: unsupported baud rate %d", baudRate)
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("channel: open %s: %w", path, err)
	}

	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("channel: get termios: %w", err)
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("channel: set termios: %w", err)
	}

	// Clear O_NONBLOCK now that the line is configured: link.FrameReader
	// expects a blocking io.Reader.
	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("channel: clear nonblock: %w", err)
	}

	return &SerialPort{File: os.NewFile(uintptr(fd), path), fd: fd}, nil
}
