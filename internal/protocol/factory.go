// internal/protocol/factory.go
package protocol

import (
	"fmt"

	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
)

// CreateTransport builds the transport named by cfg.Connection. Connection "none"
// returns a nil transport and no error.
func CreateTransport(cfg *config.PrinterConfig, logger *zap.Logger) (Transport, error) {
	switch model.ConnectionType(cfg.Connection) {
	case model.ConnectionTypeNone, "":
		return nil, nil
	case model.ConnectionTypeSerial:
		return createSerialTransport(&cfg.Serial, nil, logger)
	case model.ConnectionTypeUSB:
		return createUSBTransport(&cfg.USB, logger)
	case model.ConnectionTypeTCP:
		return createTCPTransport(&cfg.TCP, logger)
	default:
		return nil, fmt.Errorf("unsupported connection type: %s", cfg.Connection)
	}
}

func createSerialTransport(cfg *config.SerialPortConfig, opener PortOpener, logger *zap.Logger) (Transport, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("serial port is required")
	}

	logger.Info("Creating serial transport",
		zap.String("port", cfg.Port),
		zap.Int("baud_rate", cfg.BaudRate),
	)

	return NewSerialConnection(&SerialConfig{
		Port:     cfg.Port,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.Timeout,
	}, opener, logger), nil
}

func createUSBTransport(cfg *config.USBPortConfig, logger *zap.Logger) (Transport, error) {
	if _, err := ParseUSBID(cfg.VendorID); err != nil {
		return nil, fmt.Errorf("USB vendor_id: %w", err)
	}
	if _, err := ParseUSBID(cfg.ProductID); err != nil {
		return nil, fmt.Errorf("USB product_id: %w", err)
	}

	logger.Info("Creating USB transport",
		zap.String("vendor_id", cfg.VendorID),
		zap.String("product_id", cfg.ProductID),
	)

	return NewUSBConnection(&USBConfig{
		VendorID:  cfg.VendorID,
		ProductID: cfg.ProductID,
		Endpoint:  cfg.Endpoint,
		Timeout:   cfg.Timeout,
	}, logger), nil
}

func createTCPTransport(cfg *config.TCPPortConfig, logger *zap.Logger) (Transport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("TCP host is required")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port number: %d", cfg.Port)
	}

	logger.Info("Creating TCP transport",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	return NewTCPConnection(&TCPConfig{
		Host:           cfg.Host,
		Port:           cfg.Port,
		KeepAlive:      cfg.KeepAlive,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	}, logger), nil
}
