package platform

import (
	"arduipi-go/drivers/i2cdev"
	"arduipi-go/drivers/spidev"
)

// Devfs opens bus devices through /dev.
type Devfs struct{}

func (Devfs) OpenI2C(path string, addr uint16) (i2cdev.SMBus, error) {
	d, err := i2cdev.Open(path, addr)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (Devfs) OpenSPI(path string, cfg spidev.Config) (spidev.Conn, error) {
	d, err := spidev.Open(path, cfg)
	if err != nil {
		return nil, err
	}
	return d, nil
}
