package runner

import (
	"errors"

	"arduipi-go/drivers/i2cdev"
	"arduipi-go/drivers/spidev"
)

var errNACK = errors.New("remote I/O error")

// fakeSMBus records every call as a short string and serves reads from regs.
type fakeSMBus struct {
	calls  []string
	regs   map[byte]byte
	word   uint16
	last   byte
	fail   map[string]error
	closed bool
	onTx   func()
}

func newFakeSMBus() *fakeSMBus {
	return &fakeSMBus{regs: map[byte]byte{}, fail: map[string]error{}}
}

func (f *fakeSMBus) record(call string) error {
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeSMBus) WriteQuick(bit byte) error { return f.record("quick") }

func (f *fakeSMBus) ReadByte() (byte, error) {
	if err := f.record("read_byte"); err != nil {
		return 0, err
	}
	return f.regs[f.last], nil
}

func (f *fakeSMBus) WriteByte(b byte) error {
	f.last = b
	return f.record("write_byte")
}

func (f *fakeSMBus) WriteByteData(cmd, b byte) error {
	f.regs[cmd] = b
	return f.record("write_byte_data")
}

func (f *fakeSMBus) ReadWordData(cmd byte) (uint16, error) {
	f.last = cmd
	return f.word, f.record("read_word_data")
}

func (f *fakeSMBus) WriteBlockData(cmd byte, b []byte) error {
	for i, v := range b {
		f.regs[cmd+byte(i)] = v
	}
	return f.record("write_block_data")
}

func (f *fakeSMBus) Tx(addr uint16, w, r []byte) error {
	if f.onTx != nil {
		f.onTx()
	}
	if err := f.record("tx"); err != nil {
		return err
	}
	if len(w) > 0 && len(r) > 0 {
		r[0] = f.regs[w[0]]
	}
	return nil
}

func (f *fakeSMBus) Close() error {
	f.closed = true
	return nil
}

// fakeSPI answers each exchange through respond, which may rewrite buf.
type fakeSPI struct {
	sent    [][]byte
	respond func(buf []byte)
	err     error
	closed  bool
	onTx    func()
}

func (f *fakeSPI) Exchange(buf []byte) (int, error) {
	f.sent = append(f.sent, append([]byte(nil), buf...))
	if f.err != nil {
		return 0, f.err
	}
	if f.respond != nil {
		f.respond(buf)
	}
	return len(buf), nil
}

func (f *fakeSPI) Tx(w, r []byte) error {
	if f.onTx != nil {
		f.onTx()
	}
	buf := append([]byte(nil), w...)
	if _, err := f.Exchange(buf); err != nil {
		return err
	}
	copy(r, buf)
	return nil
}

func (f *fakeSPI) Transfer(b byte) (byte, error) {
	buf := []byte{b}
	_, err := f.Exchange(buf)
	return buf[0], err
}

func (f *fakeSPI) Close() error {
	f.closed = true
	return nil
}

// fakeOpener hands out the fakes above and remembers what it was asked for.
type fakeOpener struct {
	i2c     *fakeSMBus
	spi     *fakeSPI
	err     error
	path    string
	addr    uint16
	spiConf spidev.Config
}

func (o *fakeOpener) OpenI2C(path string, addr uint16) (i2cdev.SMBus, error) {
	o.path, o.addr = path, addr
	if o.err != nil {
		return nil, o.err
	}
	return o.i2c, nil
}

func (o *fakeOpener) OpenSPI(path string, cfg spidev.Config) (spidev.Conn, error) {
	o.path, o.spiConf = path, cfg
	if o.err != nil {
		return nil, o.err
	}
	return o.spi, nil
}
