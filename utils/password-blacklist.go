package utils

import (
	"bufio"
	"os"
	"strings"
)

// PasswordBlacklist holds passwords members may not choose. A nil blacklist
// rejects nothing.
type PasswordBlacklist map[string]bool

// LoadPasswordBlacklist reads one password per line. Blank lines and lines
// starting with # are skipped.
func LoadPasswordBlacklist(filePath string) (PasswordBlacklist, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	blackList := make(PasswordBlacklist)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		blackList[line] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return blackList, nil
}

func (b PasswordBlacklist) Contains(password string) bool {
	return b[password]
}
