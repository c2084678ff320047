package link

import (
	"fmt"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// SerialLister enumerates real serial devices with USB metadata.
type SerialLister struct{}

func (SerialLister) List() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	out := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		out = append(out, PortInfo{
			Path:     p.Name,
			VendorID: p.VID,
			Product:  p.Product,
		})
	}
	return out, nil
}

// SerialOpener opens real serial devices in 8N1 mode.
type SerialOpener struct{}

func (SerialOpener) Open(path string, baud int) (Port, error) {
	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	return port, nil
}
