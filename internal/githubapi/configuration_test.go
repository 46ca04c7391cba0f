package githubapi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksweep/internal/githubapi"
)

func TestConfigurationSanitize(testInstance *testing.T) {
	testCases := []struct {
		name          string
		input         githubapi.Configuration
		expectedValue githubapi.Configuration
	}{
		{
			name: "defaults_applied",
			input: githubapi.Configuration{
				Token: "  secret  ",
			},
			expectedValue: githubapi.Configuration{
				Token:       "secret",
				APIBaseURL:  githubapi.DefaultAPIBaseURL,
				GraphQLURL:  githubapi.DefaultGraphQLURL,
				Affiliation: githubapi.DefaultAffiliation,
				PageSize:    githubapi.DefaultPageSize,
			},
		},
		{
			name: "enterprise_endpoints_preserved",
			input: githubapi.Configuration{
				Token:          "secret",
				APIBaseURL:     "https://github.example.com/api/v3",
				GraphQLURL:     "https://github.example.com/api/graphql",
				Affiliation:    "owner,collaborator",
				PageSize:       30,
				RequestTimeout: 5 * time.Second,
			},
			expectedValue: githubapi.Configuration{
				Token:          "secret",
				APIBaseURL:     "https://github.example.com/api/v3/",
				GraphQLURL:     "https://github.example.com/api/graphql",
				Affiliation:    "owner,collaborator",
				PageSize:       30,
				RequestTimeout: 5 * time.Second,
			},
		},
		{
			name: "out_of_range_values_reset",
			input: githubapi.Configuration{
				PageSize:       500,
				RequestTimeout: -time.Second,
			},
			expectedValue: githubapi.Configuration{
				APIBaseURL:  githubapi.DefaultAPIBaseURL,
				GraphQLURL:  githubapi.DefaultGraphQLURL,
				Affiliation: githubapi.DefaultAffiliation,
				PageSize:    githubapi.DefaultPageSize,
			},
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expectedValue, testCase.input.Sanitize())
		})
	}
}
