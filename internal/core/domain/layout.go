package domain

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// WarrenDirName is the name of the per-user warren directory under the home directory.
	WarrenDirName = ".warren"

	// EnvsDirName is the name of the directory holding the environments.
	EnvsDirName = "venvs"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "warren.yaml"

	// DotEnvFileName is the name of the optional dotenv file read next to the configuration.
	DotEnvFileName = ".env"

	// MetadataFileName is the name of the shared metadata document under the base path.
	MetadataFileName = "venv_metadata.json"

	// MarkerFileName is the file whose presence marks a directory as a virtual environment.
	MarkerFileName = "pyvenv.cfg"

	// DefaultEnvName is the environment used when a caller does not name one.
	DefaultEnvName = "default"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultBasePath returns the default directory holding all environments.
// It joins the home directory, .warren and venvs.
func DefaultBasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(WarrenDirName, EnvsDirName)
	}
	return filepath.Join(home, WarrenDirName, EnvsDirName)
}

// DefaultPython returns the interpreter command used when no hint is given.
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// BinDir returns the environment-relative directory holding executables.
func BinDir() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

// PythonRelPath returns the environment-relative path of the interpreter.
func PythonRelPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(BinDir(), "python.exe")
	}
	return filepath.Join(BinDir(), "python")
}

// SitePackagesGlob returns the environment-relative glob matching the site-packages directory.
func SitePackagesGlob() string {
	if runtime.GOOS == "windows" {
		return filepath.Join("Lib", "site-packages")
	}
	return filepath.Join("lib", "python*", "site-packages")
}
