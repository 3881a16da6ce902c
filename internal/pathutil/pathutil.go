// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// EnvVar selects an isolated set of files, e.g. FOCUSROOM_ENV=dev.
const EnvVar = "FOCUSROOM_ENV"

// Paths holds all application path configurations.
type Paths struct {
	appDir         string
	configFileName string
	dbFileName     string
	stateFileName  string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	stateFilePath  string
	assetsDir      string
	logFilePath    string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			appDir:         "focusroom",
			configFileName: "config.yml",
			dbFileName:     "focusroom.db",
			stateFileName:  "state.db",
			logFileName:    "focusroom.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

// ConfigFilePath is the YAML configuration file.
func ConfigFilePath() string {
	return Must().configFilePath
}

// DBFilePath is the embedded store database.
func DBFilePath() string {
	return Must().dbFilePath
}

// StateFilePath is the database holding the local client slots.
func StateFilePath() string {
	return Must().stateFilePath
}

// AssetsDir is the root of locally stored assets.
func AssetsDir() string {
	return Must().assetsDir
}

// LogFilePath is the rotated log file.
func LogFilePath() string {
	return Must().logFilePath
}

func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv(EnvVar))
	if env != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", env)
		p.dbFileName = fmt.Sprintf("focusroom_%s.db", env)
		p.stateFileName = fmt.Sprintf("state_%s.db", env)
		p.logFileName = fmt.Sprintf("focusroom_%s.log", env)
	}
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.appDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return err
	}

	dataDir, err := xdg.DataFile(p.appDir)
	if err != nil {
		return err
	}

	err = os.MkdirAll(dataDir, 0o750)
	if err != nil {
		return err
	}

	p.dbFilePath = filepath.Join(dataDir, p.dbFileName)
	p.stateFilePath = filepath.Join(dataDir, p.stateFileName)
	p.assetsDir = filepath.Join(dataDir, "assets")
	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}

// StripExtension returns the input file name without its extension.
func StripExtension(fileName string) string {
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}
