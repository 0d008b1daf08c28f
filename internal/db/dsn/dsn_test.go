package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursemark/coursemark/internal/config"
)

func testConfig(engine string) *config.Config {
	return &config.Config{
		DB: config.DB{
			Engine:   engine,
			Host:     "localhost",
			Port:     3306,
			User:     "coursemark",
			Password: "secret",
			Name:     "coursemark",
			Extras:   "parseTime=True",
			Path:     "coursemark.db",
		},
	}
}

func TestCreate(t *testing.T) {
	out := Create(testConfig("mysql"))
	assert.Equal(t, "coursemark:secret@tcp(localhost:3306)/coursemark?parseTime=True", out)
}

func TestCreatePostgres(t *testing.T) {
	out := CreatePostgres(testConfig("postgres"))
	assert.Equal(t, "host=localhost user=coursemark password=secret dbname=coursemark port=3306 parseTime=True", out)
}

func TestDialector(t *testing.T) {
	testCases := []struct {
		name          string
		engine        string
		expectedError error
	}{
		{name: "mysql", engine: "mysql"},
		{name: "postgres", engine: "postgres"},
		{name: "sqlite", engine: "sqlite"},
		{name: "unknown engine", engine: "oracle", expectedError: config.ErrUnknownEngine},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dialector, err := Dialector(testConfig(tc.engine))

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, dialector)
			} else {
				require.NoError(t, err)
				require.NotNil(t, dialector)
				assert.Equal(t, tc.engine, dialector.Name())
			}
		})
	}
}
