package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var Opts *Options

// GetConfig resolves the data directory and every path derived from it.
// Defaults are loaded first when no options have been set yet.
func GetConfig() (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}

	dataDir, err := checkDataDir(Opts.Data)
	if err != nil {
		fmt.Println("Error checking data directory: ", err)
		return nil, err
	}

	Opts.Data = dataDir
	Opts.DSN = resolvePath(Opts.Data, Opts.DSN)
	Opts.MirrorDir = resolvePath(Opts.Data, Opts.MirrorDir)
	fmt.Println("Data directory: ", Opts.Data)

	return Opts, nil
}

// resolvePath joins a relative path onto the data directory.
func resolvePath(dataDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
		}
		err := os.MkdirAll(dataDir, 0755)
		if err == nil {
			return dataDir, nil
		}
		if dataDir != defaultData || !errors.Is(err, os.ErrPermission) {
			return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
		}
		// Permission denied, try to create in user's home directory
		currentUser, err := user.Current()
		if err != nil {
			return "", errors.Wrap(err, "unable to get current user")
		}
		homeDir := currentUser.HomeDir
		fmt.Println("Permission denied, trying to check data folder in user's home directory")
		if homeDir == "" {
			return "", errors.New("unable to get home directory")
		}

		homeData := filepath.Join(homeDir, ".book-manager")
		if err := os.MkdirAll(homeData, 0755); err != nil {
			return "", errors.Wrapf(err, "unable to create default data folder %s", homeData)
		}
		fmt.Println("Data folder in user's home directory: ", homeData)
		return homeData, nil
	}
	return dataDir, nil
}

// ParseFile reads a config file on top of the current options.
func ParseFile(file string) (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}

	// Check if file exists
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", file)
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrapf(err, "unable to decode config file %s", file)
	}
	return Opts, nil
}
