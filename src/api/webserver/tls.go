package webserver

import (
	"crypto/tls"
	"log"
	"os"
	"sync"
	"time"
)

// TLSReloader serves the cert/key pair from disk and picks up rotations
// without a restart.
type TLSReloader struct {
	certFile    string
	keyFile     string
	cert        *tls.Certificate
	mu          sync.RWMutex
	lastModCert time.Time
	lastModKey  time.Time
}

func NewTLSReloader(certFile, keyFile string) (*TLSReloader, error) {
	r := &TLSReloader{certFile: certFile, keyFile: keyFile}
	if err := r.reload(); err != nil {
		return nil, err
	}
	go r.watchFiles()
	return r, nil
}

func (r *TLSReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()

	if info, err := os.Stat(r.certFile); err == nil {
		r.lastModCert = info.ModTime()
	}
	if info, err := os.Stat(r.keyFile); err == nil {
		r.lastModKey = info.ModTime()
	}

	log.Printf("TLS certificates reloaded")
	return nil
}

func (r *TLSReloader) watchFiles() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		certInfo, err := os.Stat(r.certFile)
		if err != nil {
			log.Printf("Failed to stat cert file: %v", err)
			continue
		}
		keyInfo, err := os.Stat(r.keyFile)
		if err != nil {
			log.Printf("Failed to stat key file: %v", err)
			continue
		}
		if certInfo.ModTime().After(r.lastModCert) || keyInfo.ModTime().After(r.lastModKey) {
			if err := r.reload(); err != nil {
				log.Printf("Failed to reload TLS certificates: %v", err)
			}
		}
	}
}

// GetCertificate plugs into tls.Config.
func (r *TLSReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}
