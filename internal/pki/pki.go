/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package pki builds the root -> intermediate -> leaf certificate
// hierarchy. Each operation is pure given its inputs and returns both
// the issued certificate and the causal event describing its issuance,
// so callers can stream the event into the causal substrate.
package pki

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/keys"
)

// Error reports a failure in a builder operation.
type Error struct {
	Op     string
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("pki: %s: %s", e.Op, e.Reason) }

// RootParams configures a self-signed root CA.
type RootParams struct {
	Organization string
	CommonName   string
	Country      string
	State        string
	Locality     string
	ValidityYears int
	PathLen      int
}

// Certificate is an issued certificate together with its signing key,
// ready to sign a child or be written to an artifact.
type Certificate struct {
	ID          uuid.UUID
	Subject     string
	Issuer      string
	NotBefore   time.Time
	NotAfter    time.Time
	IsCA        bool
	Fingerprint string
	DER         []byte
	PEM         []byte
	Key         *ecdsa.PrivateKey
}

// ChainPEM concatenates certs from leaf to root (or however ordered) into
// a single PEM bundle.
func ChainPEM(certs ...Certificate) []byte {
	var out []byte
	for _, c := range certs {
		out = append(out, c.PEM...)
	}
	return out
}

// Event is the causal event payload emitted by a builder operation.
type Event struct {
	Kind          string
	CertificateID uuid.UUID
	ParentID      uuid.UUID
	CorrelationID uuid.UUID
	CausationID   *uuid.UUID
}

func fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return fmt.Sprintf("%x", sum)
}

func serialNumber() (*big.Int, error) {
	return rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
}

func encodePEM(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

// KeyPEM encodes a certificate's private key as a PEM-wrapped SEC1 EC
// private key, for artifacts that must carry key material separately
// from the certificate itself.
func KeyPEM(cert Certificate) ([]byte, error) {
	der, err := x509.MarshalECPrivateKey(cert.Key)
	if err != nil {
		return nil, &Error{Op: "key_pem", Reason: err.Error()}
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

// GenerateRootCA produces a self-signed root certificate, deriving its
// key material from seed.
func GenerateRootCA(seed interface{ DeriveChild(string) keys.ChildSeed }, params RootParams, correlationID uuid.UUID) (Certificate, Event, error) {
	if params.ValidityYears < 10 {
		return Certificate{}, Event{}, &Error{Op: "generate_root_ca", Reason: "validity_years must be at least 10 by convention"}
	}

	child := seed.DeriveChild("pki.root")
	priv, err := keys.ECDSAFromSeed(child, elliptic.P384())
	child.Zero()
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_root_ca", Reason: err.Error()}
	}

	serial, err := serialNumber()
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_root_ca", Reason: err.Error()}
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{params.Organization},
			CommonName:   params.CommonName,
			Country:      countrySlice(params.Country),
			Province:     provinceSlice(params.State),
			Locality:     localitySlice(params.Locality),
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().AddDate(params.ValidityYears, 0, 0),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLen:            params.PathLen,
		MaxPathLenZero:        params.PathLen == 0,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_root_ca", Reason: err.Error()}
	}

	cert := Certificate{
		ID:          uuid.New(),
		Subject:     template.Subject.String(),
		Issuer:      template.Subject.String(),
		NotBefore:   template.NotBefore,
		NotAfter:    template.NotAfter,
		IsCA:        true,
		Fingerprint: fingerprint(der),
		DER:         der,
		PEM:         encodePEM(der),
		Key:         priv,
	}

	event := Event{Kind: "RootCAGenerated", CertificateID: cert.ID, CorrelationID: correlationID}
	return cert, event, nil
}

// IntermediateParams configures an intermediate CA signed by a parent.
type IntermediateParams struct {
	Organization  string
	CommonName    string
	ValidityYears int
	PathLen       int
}

// GenerateIntermediateCA produces a CA certificate signed by parent,
// deriving its key material from a seed path distinct from the root's.
func GenerateIntermediateCA(
	seed interface{ DeriveChild(string) keys.ChildSeed },
	params IntermediateParams,
	parent Certificate,
	correlationID uuid.UUID,
	causationID *uuid.UUID,
) (Certificate, Event, error) {
	child := seed.DeriveChild("pki.intermediate." + params.CommonName)
	priv, err := keys.ECDSAFromSeed(child, elliptic.P384())
	child.Zero()
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_intermediate_ca", Reason: err.Error()}
	}

	parentCert, err := x509.ParseCertificate(parent.DER)
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_intermediate_ca", Reason: err.Error()}
	}

	serial, err := serialNumber()
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_intermediate_ca", Reason: err.Error()}
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{params.Organization},
			CommonName:   params.CommonName,
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().AddDate(params.ValidityYears, 0, 0),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLen:            params.PathLen,
		MaxPathLenZero:        params.PathLen == 0,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parentCert, &priv.PublicKey, parent.Key)
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_intermediate_ca", Reason: err.Error()}
	}

	cert := Certificate{
		ID:          uuid.New(),
		Subject:     template.Subject.String(),
		Issuer:      parentCert.Subject.String(),
		NotBefore:   template.NotBefore,
		NotAfter:    template.NotAfter,
		IsCA:        true,
		Fingerprint: fingerprint(der),
		DER:         der,
		PEM:         encodePEM(der),
		Key:         priv,
	}

	event := Event{Kind: "IntermediateCAGenerated", CertificateID: cert.ID, ParentID: parent.ID, CorrelationID: correlationID, CausationID: causationID}
	return cert, event, nil
}

// ServerParams configures a leaf server certificate.
type ServerParams struct {
	CommonName   string
	SANEntries   []string
	Organization string
	OU           string
	ValidityDays int
}

// GenerateServerCertificate produces a leaf certificate for server
// authentication, signed by parent.
func GenerateServerCertificate(
	seed interface{ DeriveChild(string) keys.ChildSeed },
	params ServerParams,
	parent Certificate,
	correlationID uuid.UUID,
	causationID *uuid.UUID,
) (Certificate, Event, error) {
	child := seed.DeriveChild("pki.server." + params.CommonName)
	priv, err := keys.ECDSAFromSeed(child, elliptic.P256())
	child.Zero()
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_server_certificate", Reason: err.Error()}
	}

	parentCert, err := x509.ParseCertificate(parent.DER)
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_server_certificate", Reason: err.Error()}
	}

	serial, err := serialNumber()
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_server_certificate", Reason: err.Error()}
	}

	org := []string{params.Organization}
	var ou []string
	if params.OU != "" {
		ou = []string{params.OU}
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization:       org,
			OrganizationalUnit: ou,
			CommonName:         params.CommonName,
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().AddDate(0, 0, params.ValidityDays),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              dnsNames(params.SANEntries),
		IPAddresses:           ipAddresses(params.SANEntries),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parentCert, &priv.PublicKey, parent.Key)
	if err != nil {
		return Certificate{}, Event{}, &Error{Op: "generate_server_certificate", Reason: err.Error()}
	}

	cert := Certificate{
		ID:          uuid.New(),
		Subject:     template.Subject.String(),
		Issuer:      parentCert.Subject.String(),
		NotBefore:   template.NotBefore,
		NotAfter:    template.NotAfter,
		IsCA:        false,
		Fingerprint: fingerprint(der),
		DER:         der,
		PEM:         encodePEM(der),
		Key:         priv,
	}

	event := Event{Kind: "ServerCertificateGenerated", CertificateID: cert.ID, ParentID: parent.ID, CorrelationID: correlationID, CausationID: causationID}
	return cert, event, nil
}

func dnsNames(sanEntries []string) []string {
	var out []string
	for _, e := range sanEntries {
		if net.ParseIP(e) == nil {
			out = append(out, e)
		}
	}
	return out
}

func ipAddresses(sanEntries []string) []net.IP {
	var out []net.IP
	for _, e := range sanEntries {
		if ip := net.ParseIP(e); ip != nil {
			out = append(out, ip)
		}
	}
	return out
}

func countrySlice(c string) []string {
	if c == "" {
		return nil
	}
	return []string{c}
}

func provinceSlice(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func localitySlice(l string) []string {
	if l == "" {
		return nil
	}
	return []string{l}
}
