/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

package roles

import (
	"github.com/google/uuid"

	"github.com/cim-labs/keyforge/internal/claims"
)

// Template is a reusable role definition, instantiated into a concrete
// Role when an organization bootstraps its roster.
type Template struct {
	Name                string
	Description         string
	Domain              claims.Category
	Level               uint8
	SeparationClass     SeparationClass
	Claims              []claims.Claim
	IncompatibleWith []string
}

// ToRole instantiates the template as a concrete Role owned by createdBy.
func (t Template) ToRole(createdBy uuid.UUID) (Role, error) {
	purpose := Purpose{
		Domain:          t.Domain,
		Description:     t.Description,
		SeparationClass: t.SeparationClass,
		Level:           t.Level,
	}
	role, err := New(t.Name, purpose, claims.NewSet(t.Claims...), createdBy)
	if err != nil {
		return Role{}, err
	}
	for _, other := range t.IncompatibleWith {
		role = role.DeclareIncompatible(other)
	}
	return role, nil
}

// Standard templates covering the security- and infrastructure-relevant
// tracks a PKI/NATS governance deployment needs out of the box.
var (
	SecurityAdmin = Template{
		Name:            "security-admin",
		Description:     "manages keys, certificates, and hardware-backed credentials",
		Domain:          claims.CategorySecurity,
		Level:           4,
		SeparationClass: SeparationAdministrative,
		Claims: []claims.Claim{
			claims.Of(claims.GenerateKey),
			claims.Of(claims.RevokeKey),
			claims.Of(claims.RequestCertificate),
			claims.Of(claims.ViewCertificate),
		},
		IncompatibleWith: []string{"auditor"},
	}

	Auditor = Template{
		Name:            "auditor",
		Description:     "reviews access, policy, and audit logs without operational authority",
		Domain:          claims.CategoryObservability,
		Level:           3,
		SeparationClass: SeparationAudit,
		Claims: []claims.Claim{
			claims.Of(claims.ViewAuditLogs),
			claims.Of(claims.ViewLogs),
			claims.Of(claims.ReadPolicy),
		},
		IncompatibleWith: []string{"security-admin", "developer"},
	}

	Developer = Template{
		Name:            "developer",
		Description:     "writes and deploys application code",
		Domain:          claims.CategoryDevelopment,
		Level:           2,
		SeparationClass: SeparationOperational,
		Claims: []claims.Claim{
			claims.Of(claims.ReadRepository),
			claims.Of(claims.WriteRepository),
			claims.Of(claims.ApprovePullRequest),
		},
		IncompatibleWith: []string{"auditor"},
	}

	RootAuthority = Template{
		Name:            "root-authority",
		Description:     "holds the offline root of trust for the PKI and NATS operator hierarchies",
		Domain:          claims.CategorySecurity,
		Level:           5,
		SeparationClass: SeparationEmergency,
		Claims: []claims.Claim{
			claims.Of(claims.GenerateKey),
			claims.Of(claims.ExportPrivateKey),
			claims.Of(claims.CreateNATSOperator),
			claims.Of(claims.SuperAdmin),
		},
		IncompatibleWith: []string{"auditor", "developer"},
	}

	BackupHolder = Template{
		Name:            "backup-holder",
		Description:     "holds an escrow copy of recovery material without day-to-day access",
		Domain:          claims.CategorySecurity,
		Level:           1,
		SeparationClass: SeparationEmergency,
		Claims: []claims.Claim{
			claims.Of(claims.ViewCertificate),
		},
	}
)

// AllTemplates lists every standard template, in declaration order.
func AllTemplates() []Template {
	return []Template{SecurityAdmin, Auditor, Developer, RootAuthority, BackupHolder}
}

// ByName looks up a standard template by its exact, case-sensitive name.
func ByName(name string) (Template, bool) {
	for _, t := range AllTemplates() {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
