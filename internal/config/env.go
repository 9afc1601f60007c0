package config

import "sync"

var (
	envMu sync.RWMutex
	envs  = map[string]bool{
		"browser": true, "node": true, "commonjs": true, "shared-node-browser": true,
		"es6": true, "es2016": true, "es2017": true, "es2018": true, "es2019": true,
		"es2020": true, "es2021": true, "es2022": true, "worker": true, "amd": true,
		"mocha": true, "jasmine": true, "jest": true, "phantomjs": true,
		"protractor": true, "qunit": true, "jquery": true, "prototypejs": true,
		"shelljs": true, "meteor": true, "mongo": true, "applescript": true,
		"nashorn": true, "serviceworker": true, "atomtest": true, "embertest": true,
		"webextensions": true, "greasemonkey": true,
	}
)

// RegisterEnv adds an environment name, for plugins that define their own.
func RegisterEnv(name string) {
	envMu.Lock()
	defer envMu.Unlock()
	envs[name] = true
}

// KnownEnv reports whether name is a recognised environment.
func KnownEnv(name string) bool {
	envMu.RLock()
	defer envMu.RUnlock()
	return envs[name]
}
