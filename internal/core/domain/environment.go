package domain

// Status is the outcome reported to callers at the application boundary.
type Status string

const (
	StatusCreated              Status = "created"
	StatusExists               Status = "exists"
	StatusDeleted              Status = "deleted"
	StatusNotFound             Status = "not_found"
	StatusConfirmationRequired Status = "confirmation_required"
	StatusSuccess              Status = "success"
	StatusPartial              Status = "partial"
	StatusError                Status = "error"
)

// Environment describes one valid virtual environment under the base path.
type Environment struct {
	Name               string `json:"name"`
	Path               string `json:"path"`
	IsDefault          bool   `json:"isDefault"`
	InterpreterVersion string `json:"interpreterVersion,omitempty"`
	Description        string `json:"description,omitempty"`
	PackageCount       int    `json:"packageCount"`
}

// CreateResult is returned by environment creation.
type CreateResult struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Status      Status `json:"status"`
	Interpreter string `json:"interpreter,omitempty"`
}

// DeleteResult is returned by environment deletion.
type DeleteResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// InstallResult is returned by package installation.
type InstallResult struct {
	Env      string           `json:"env"`
	Status   Status           `json:"status"`
	Tier     InstallTier      `json:"tier"`
	Packages []PackageOutcome `json:"packages"`
}

// UninstallResult is returned by package removal.
type UninstallResult struct {
	Env      string           `json:"env"`
	Status   Status           `json:"status"`
	Packages []PackageOutcome `json:"packages"`
}

// InstallTier identifies which installation strategy produced the final package set.
type InstallTier string

const (
	// TierBulk installs every requested package in a single installer invocation.
	TierBulk InstallTier = "bulk"
	// TierNoBinary repeats the bulk install forcing source builds for eligible packages.
	TierNoBinary InstallTier = "no_binary"
	// TierPerPackage installs each requested package on its own.
	TierPerPackage InstallTier = "per_package"
)

// Report is the uniform response produced at the application boundary.
type Report struct {
	Status       Status            `json:"status"`
	Env          string            `json:"env,omitempty"`
	Message      string            `json:"message,omitempty"`
	Tier         InstallTier       `json:"tier,omitempty"`
	Packages     []PackageOutcome  `json:"packages,omitempty"`
	Installed    map[string]string `json:"installed,omitempty"`
	Names        []string          `json:"names,omitempty"`
	Environments []Environment     `json:"environments,omitempty"`
}
