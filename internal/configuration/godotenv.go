package configuration

import (
	"fmt"

	"github.com/joho/godotenv"
)

// GodotenvProvider is an implementation wrapping the Godotenv framework.
type GodotenvProvider struct{}

// Read reads dotenv files into a map (map[key]value). Without filenames
// nothing is read, rather than falling back to a ".env" in the working
// directory.
func (*GodotenvProvider) Read(filenames ...string) (map[string]string, error) {
	if len(filenames) == 0 {
		return map[string]string{}, nil
	}

	data, err := godotenv.Read(filenames...)
	if err != nil {
		return data, fmt.Errorf("(config-godotenv) %w", err)
	}

	return data, nil
}
