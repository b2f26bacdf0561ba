// Package env reads credentials and settings from dotenv-style files so the
// router password does not have to travel on the command line.
package env

import (
	"os"
	"strings"
)

type EnvLine struct {
	Key string `json:"key"`
	Val string `json:"val"`
}

// ParseEnvFile parses an environment file and returns a list of EnvLine structs.
// A missing file is not an error, it simply yields no entries.
func ParseEnvFile(filename string) ([]EnvLine, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return []EnvLine{}, nil
	}
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseEnvBuffer(buf)
}

// ParseEnvBuffer parses dotenv-style content: one KEY=value per line,
// blank lines and #-comments skipped, single or double quotes stripped.
func ParseEnvBuffer(buf []byte) ([]EnvLine, error) {
	envs := make([]EnvLine, 0)
	for _, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		env := ProcessEnvLine(line)
		if env.Key != "" {
			envs = append(envs, env)
		}
	}
	return envs, nil
}

// ProcessEnvLine processes an environment variable line and returns an EnvLine struct.
func ProcessEnvLine(env string) EnvLine {
	tok := strings.SplitN(env, "=", 2)
	if len(tok) < 2 {
		return EnvLine{Key: env, Val: ""}
	}
	return EnvLine{Key: tok[0], Val: dequote(tok[1])}
}

// Lookup returns the value for key from the parsed entries, last one wins.
func Lookup(envs []EnvLine, key string) (string, bool) {
	val := ""
	found := false
	for _, env := range envs {
		if env.Key == key {
			val = env.Val
			found = true
		}
	}
	return val, found
}

func dequote(s string) string {
	v := s
	if strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'") {
		v = strings.TrimLeft(v, "'")
		v = strings.TrimRight(v, "'")
	} else if strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		v = strings.TrimLeft(v, `"`)
		v = strings.TrimRight(v, `"`)
	}
	return v
}
