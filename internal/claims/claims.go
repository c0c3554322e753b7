/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package claims defines the atomic permission vocabulary claims compose
// into. Claims compose additively: claims ∪ claims = effective claims.
package claims

import "fmt"

// Kind identifies a predefined claim. The zero value is not a valid claim.
type Kind string

const (
	// Identity & Access
	CreateUser            Kind = "create_user"
	ReadUser               Kind = "read_user"
	UpdateUser             Kind = "update_user"
	DeleteUser             Kind = "delete_user"
	ImpersonateUser        Kind = "impersonate_user"
	AssignRole             Kind = "assign_role"
	RevokeRole             Kind = "revoke_role"
	ConfigureMFA           Kind = "configure_mfa"

	// Infrastructure
	CreateServer        Kind = "create_server"
	ReadServer           Kind = "read_server"
	DeleteServer         Kind = "delete_server"
	AccessServerConsole  Kind = "access_server_console"
	ManageFirewall       Kind = "manage_firewall"

	// Development & DevOps
	ReadRepository      Kind = "read_repository"
	WriteRepository     Kind = "write_repository"
	ForcePush           Kind = "force_push"
	DeployToProduction  Kind = "deploy_to_production"
	ApprovePullRequest  Kind = "approve_pull_request"

	// Security & Cryptography
	GenerateKey        Kind = "generate_key"
	ExportPrivateKey   Kind = "export_private_key"
	RevokeKey          Kind = "revoke_key"
	RequestCertificate Kind = "request_certificate"
	ViewCertificate    Kind = "view_certificate"

	// Data & Databases
	ReadPublicData     Kind = "read_public_data"
	ReadRestrictedData Kind = "read_restricted_data"
	ExecuteSQL         Kind = "execute_sql"
	DeleteData         Kind = "delete_data"
	ExportData         Kind = "export_data"

	// Observability & Monitoring
	ViewLogs       Kind = "view_logs"
	ViewAuditLogs  Kind = "view_audit_logs"
	DeleteLogs     Kind = "delete_logs"
	ViewMetrics    Kind = "view_metrics"
	CreateAlertRule Kind = "create_alert_rule"

	// Communication & Collaboration
	CreateDocument         Kind = "create_document"
	ShareDocumentExternal  Kind = "share_document_external"
	DeleteDocument         Kind = "delete_document"

	// Project Management
	CreateTask           Kind = "create_task"
	ReadTask             Kind = "read_task"
	ApproveBudgetRequest Kind = "approve_budget_request"

	// Finance & Billing
	CreateInvoice  Kind = "create_invoice"
	ApproveInvoice Kind = "approve_invoice"
	SignContract   Kind = "sign_contract"

	// HR & People Operations
	ViewEmployeeRecord  Kind = "view_employee_record"
	UpdateCompensation  Kind = "update_compensation"
	InitiateOffboarding Kind = "initiate_offboarding"
	RevokeAllAccess     Kind = "revoke_all_access"

	// NATS Messaging
	CreateNATSOperator Kind = "create_nats_operator"
	CreateNATSAccount  Kind = "create_nats_account"
	CreateNATSUser     Kind = "create_nats_user"
	ManageNATSSubject  Kind = "manage_nats_subject"
	PublishAnySubject  Kind = "publish_any_subject"
	ManageJetStream    Kind = "manage_jetstream"

	// Organization Management
	CreateOrganizationalUnit Kind = "create_organizational_unit"
	ManageOrganizationSettings Kind = "manage_organization_settings"

	// Policy Management
	CreatePolicy Kind = "create_policy"
	ReadPolicy   Kind = "read_policy"
	BindPolicy   Kind = "bind_policy"
	DeletePolicy Kind = "delete_policy"

	// Emergency & Administrative
	InitiateEmergency     Kind = "initiate_emergency"
	AccessEmergencyControl Kind = "access_emergency_control"
	SuperRead             Kind = "super_read"
	SuperAdmin            Kind = "super_admin"

	// Policy-level capability claims, referenced directly by deployment
	// policies rather than composed from finer-grained operations.
	CanModifyInfrastructure Kind = "can_modify_infrastructure"
	CanAccessDevelopment    Kind = "can_access_development"
	CanAccessProduction     Kind = "can_access_production"
	CanSignCode             Kind = "can_sign_code"

	// custom is the internal kind used when Custom fields are populated.
	custom Kind = "custom"
)

// Category groups claims for organization and policy scoping.
type Category int

const (
	CategoryIdentity Category = iota
	CategoryInfrastructure
	CategoryDevelopment
	CategorySecurity
	CategoryData
	CategoryObservability
	CategoryCommunication
	CategoryProject
	CategoryFinance
	CategoryHR
	CategoryNATS
	CategoryOrganization
	CategoryPolicy
	CategoryEmergency
	CategoryCustom
)

func (c Category) String() string {
	switch c {
	case CategoryIdentity:
		return "Identity & Access"
	case CategoryInfrastructure:
		return "Infrastructure"
	case CategoryDevelopment:
		return "Development & DevOps"
	case CategorySecurity:
		return "Security & Cryptography"
	case CategoryData:
		return "Data & Databases"
	case CategoryObservability:
		return "Observability & Monitoring"
	case CategoryCommunication:
		return "Communication & Collaboration"
	case CategoryProject:
		return "Project Management"
	case CategoryFinance:
		return "Finance & Billing"
	case CategoryHR:
		return "HR & People Operations"
	case CategoryNATS:
		return "NATS Messaging"
	case CategoryOrganization:
		return "Organization Management"
	case CategoryPolicy:
		return "Policy Management"
	case CategoryEmergency:
		return "Emergency & Administrative"
	case CategoryCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Claim is the closed permission primitive. A zero Claim with an empty
// Kind is invalid; construct claims via the predefined Kind constants or
// NewCustom.
type Claim struct {
	kind Kind

	// custom fields, populated only when kind == custom.
	domain   string
	resource string
	action   string
	scope    string // empty means unscoped
}

// Of constructs a Claim from one of the predefined Kind constants.
func Of(kind Kind) Claim {
	if kind == custom {
		panic("claims: use NewCustom to construct a custom claim")
	}
	return Claim{kind: kind}
}

// NewCustom constructs a domain-specific extension claim. scope may be
// empty to indicate no scope restriction.
func NewCustom(domain, resource, action, scope string) Claim {
	return Claim{kind: custom, domain: domain, resource: resource, action: action, scope: scope}
}

// Kind returns the claim's discriminator.
func (c Claim) Kind() Kind { return c.kind }

// IsCustom reports whether this is a Custom-variant claim.
func (c Claim) IsCustom() bool { return c.kind == custom }

// Custom returns the (domain, resource, action, scope) tuple for a custom
// claim. scope is "" when unscoped. ok is false for non-custom claims.
func (c Claim) Custom() (domain, resource, action, scope string, ok bool) {
	if c.kind != custom {
		return "", "", "", "", false
	}
	return c.domain, c.resource, c.action, c.scope, true
}

var categoryOf = map[Kind]Category{
	CreateUser: CategoryIdentity, ReadUser: CategoryIdentity, UpdateUser: CategoryIdentity,
	DeleteUser: CategoryIdentity, ImpersonateUser: CategoryIdentity, AssignRole: CategoryIdentity,
	RevokeRole: CategoryIdentity, ConfigureMFA: CategoryIdentity,

	CreateServer: CategoryInfrastructure, ReadServer: CategoryInfrastructure,
	DeleteServer: CategoryInfrastructure, AccessServerConsole: CategoryInfrastructure,
	ManageFirewall: CategoryInfrastructure,

	ReadRepository: CategoryDevelopment, WriteRepository: CategoryDevelopment,
	ForcePush: CategoryDevelopment, DeployToProduction: CategoryDevelopment,
	ApprovePullRequest: CategoryDevelopment,

	GenerateKey: CategorySecurity, ExportPrivateKey: CategorySecurity, RevokeKey: CategorySecurity,
	RequestCertificate: CategorySecurity, ViewCertificate: CategorySecurity,

	ReadPublicData: CategoryData, ReadRestrictedData: CategoryData, ExecuteSQL: CategoryData,
	DeleteData: CategoryData, ExportData: CategoryData,

	ViewLogs: CategoryObservability, ViewAuditLogs: CategoryObservability,
	DeleteLogs: CategoryObservability, ViewMetrics: CategoryObservability,
	CreateAlertRule: CategoryObservability,

	CreateDocument: CategoryCommunication, ShareDocumentExternal: CategoryCommunication,
	DeleteDocument: CategoryCommunication,

	CreateTask: CategoryProject, ReadTask: CategoryProject, ApproveBudgetRequest: CategoryProject,

	CreateInvoice: CategoryFinance, ApproveInvoice: CategoryFinance, SignContract: CategoryFinance,

	ViewEmployeeRecord: CategoryHR, UpdateCompensation: CategoryHR,
	InitiateOffboarding: CategoryHR, RevokeAllAccess: CategoryHR,

	CreateNATSOperator: CategoryNATS, CreateNATSAccount: CategoryNATS, CreateNATSUser: CategoryNATS,
	ManageNATSSubject: CategoryNATS, PublishAnySubject: CategoryNATS, ManageJetStream: CategoryNATS,

	CreateOrganizationalUnit: CategoryOrganization, ManageOrganizationSettings: CategoryOrganization,

	CreatePolicy: CategoryPolicy, ReadPolicy: CategoryPolicy, BindPolicy: CategoryPolicy,
	DeletePolicy: CategoryPolicy,

	InitiateEmergency: CategoryEmergency, AccessEmergencyControl: CategoryEmergency,
	SuperRead: CategoryEmergency, SuperAdmin: CategoryEmergency,

	CanModifyInfrastructure: CategoryInfrastructure, CanAccessDevelopment: CategoryDevelopment,
	CanAccessProduction: CategoryDevelopment, CanSignCode: CategorySecurity,
}

var readOnly = map[Kind]bool{
	ReadUser: true, ReadServer: true, ReadRepository: true, ViewCertificate: true,
	ReadPublicData: true, ReadRestrictedData: true, ViewLogs: true, ViewAuditLogs: true,
	ViewMetrics: true, ReadTask: true, ReadPolicy: true, SuperRead: true,
}

var destructive = map[Kind]bool{
	DeleteUser: true, DeleteServer: true, ForcePush: true, RevokeKey: true,
	DeleteData: true, DeleteLogs: true, DeleteDocument: true, RevokeAllAccess: true,
	DeletePolicy: true, SuperAdmin: true,
}

var elevated = map[Kind]bool{
	ImpersonateUser: true, AccessServerConsole: true, ForcePush: true,
	DeployToProduction: true, ExportPrivateKey: true, ReadRestrictedData: true,
	ExecuteSQL: true, DeleteLogs: true, SignContract: true, UpdateCompensation: true,
	InitiateEmergency: true, AccessEmergencyControl: true, SuperRead: true, SuperAdmin: true,
}

// Category returns the category a claim belongs to.
func (c Claim) Category() Category {
	if c.kind == custom {
		return CategoryCustom
	}
	return categoryOf[c.kind]
}

// IsReadOnly reports whether the claim only grants read access.
func (c Claim) IsReadOnly() bool {
	return readOnly[c.kind]
}

// IsDestructive reports whether the claim permits a destructive or
// irreversible operation.
func (c Claim) IsDestructive() bool {
	return destructive[c.kind]
}

// RequiresElevation reports whether the claim requires an elevated
// privilege context (e.g. step-up authentication) to exercise.
func (c Claim) RequiresElevation() bool {
	return elevated[c.kind]
}

// URI returns a stable URI-style identifier for the claim, suitable for
// serialization and set comparison.
func (c Claim) URI() string {
	if c.kind == custom {
		if c.scope != "" {
			return fmt.Sprintf("claim:%s:%s:%s:%s", c.domain, c.resource, c.action, c.scope)
		}
		return fmt.Sprintf("claim:%s:%s:%s", c.domain, c.resource, c.action)
	}
	return fmt.Sprintf("claim:cim:%s", c.kind)
}

// String renders a human-readable label for the claim.
func (c Claim) String() string {
	if c.kind == custom {
		return fmt.Sprintf("Custom: %s:%s:%s", c.domain, c.resource, c.action)
	}
	if label, ok := displayName[c.kind]; ok {
		return label
	}
	return string(c.kind)
}

var displayName = map[Kind]string{
	CreateUser: "Create User", ReadUser: "Read User", UpdateUser: "Update User",
	DeleteUser: "Delete User", ImpersonateUser: "Impersonate User", AssignRole: "Assign Role",
	RevokeRole: "Revoke Role", ConfigureMFA: "Configure MFA",
	CreateServer: "Create Server", ReadServer: "Read Server", DeleteServer: "Delete Server",
	AccessServerConsole: "Access Server Console", ManageFirewall: "Manage Firewall",
	ReadRepository: "Read Repository", WriteRepository: "Write Repository", ForcePush: "Force Push",
	DeployToProduction: "Deploy To Production", ApprovePullRequest: "Approve Pull Request",
	GenerateKey: "Generate Key", ExportPrivateKey: "Export Private Key", RevokeKey: "Revoke Key",
	RequestCertificate: "Request Certificate", ViewCertificate: "View Certificate",
	ReadPublicData: "Read Public Data", ReadRestrictedData: "Read Restricted Data",
	ExecuteSQL: "Execute SQL", DeleteData: "Delete Data", ExportData: "Export Data",
	ViewLogs: "View Logs", ViewAuditLogs: "View Audit Logs", DeleteLogs: "Delete Logs",
	ViewMetrics: "View Metrics", CreateAlertRule: "Create Alert Rule",
	CreateDocument: "Create Document", ShareDocumentExternal: "Share Document Externally",
	DeleteDocument: "Delete Document",
	CreateTask: "Create Task", ReadTask: "Read Task", ApproveBudgetRequest: "Approve Budget Request",
	CreateInvoice: "Create Invoice", ApproveInvoice: "Approve Invoice", SignContract: "Sign Contract",
	ViewEmployeeRecord: "View Employee Record", UpdateCompensation: "Update Compensation",
	InitiateOffboarding: "Initiate Offboarding", RevokeAllAccess: "Revoke All Access",
	CreateNATSOperator: "Create NATS Operator", CreateNATSAccount: "Create NATS Account",
	CreateNATSUser: "Create NATS User", ManageNATSSubject: "Manage NATS Subject",
	PublishAnySubject: "Publish Any Subject", ManageJetStream: "Manage JetStream",
	CreateOrganizationalUnit: "Create Organizational Unit",
	ManageOrganizationSettings: "Manage Organization Settings",
	CreatePolicy: "Create Policy", ReadPolicy: "Read Policy", BindPolicy: "Bind Policy",
	DeletePolicy: "Delete Policy",
	InitiateEmergency: "Initiate Emergency", AccessEmergencyControl: "Access Emergency Control",
	SuperRead: "Super Read", SuperAdmin: "Super Admin",
	CanModifyInfrastructure: "Can Modify Infrastructure", CanAccessDevelopment: "Can Access Development",
	CanAccessProduction: "Can Access Production", CanSignCode: "Can Sign Code",
}
