package repos_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repos "github.com/temirov/forksweep/cmd/cli/repos"
	"github.com/temirov/forksweep/internal/githubauth"
	"github.com/temirov/forksweep/internal/repos/shared"
)

const (
	commandTestOwner           = "octocat"
	commandTestToken           = "ghp_command_test"
	deletePhraseInput          = "DELETE ALL FORKS\n"
	privatizePhraseInput       = "MAKE PRIVATE\n"
	detachPhraseInput          = "DETACH FORKS\n"
	wrongPhraseInput           = "delete all forks\n"
	assumeYesFlag              = "--yes"
	assumeYesDisabledFlag      = "--yes=no"
	tokenSourceFlag            = "--token-source"
	tokenSourceFlagValue       = "env:FORKSWEEP_TEST_TOKEN"
	deletionCancelledFragment  = "Cancelled. No repositories were deleted."
	confirmationPromptFragment = "Type 'DELETE ALL FORKS' to confirm: "
)

func TestMain(mainInstance *testing.M) {
	color.NoColor = true
	os.Exit(mainInstance.Run())
}

type fakeGitHubClient struct {
	repositories []shared.Repository
	listError    error
	failures     map[string]error
	calls        []string
}

func (client *fakeGitHubClient) ListOwnedRepositories(context.Context) ([]shared.Repository, error) {
	client.calls = append(client.calls, "list")
	return client.repositories, client.listError
}

func (client *fakeGitHubClient) DeleteRepository(_ context.Context, repository shared.Repository) error {
	client.calls = append(client.calls, "delete:"+repository.Name)
	return client.failures[repository.Name]
}

func (client *fakeGitHubClient) MakePrivate(_ context.Context, repository shared.Repository) error {
	client.calls = append(client.calls, "private:"+repository.Name)
	return client.failures[repository.Name]
}

func (client *fakeGitHubClient) DetachFromForkNetwork(_ context.Context, repository shared.Repository) error {
	client.calls = append(client.calls, "detach:"+repository.Name)
	return client.failures[repository.Name]
}

type stubTokenResolver struct {
	token          string
	err            error
	receivedSource string
	invocations    int
}

func (resolver *stubTokenResolver) ResolveToken(_ context.Context, sourceValue string) (string, error) {
	resolver.invocations++
	resolver.receivedSource = sourceValue
	return resolver.token, resolver.err
}

func commandRepository(name string, fork bool, private bool) shared.Repository {
	return shared.Repository{
		Owner:    commandTestOwner,
		Name:     name,
		FullName: commandTestOwner + "/" + name,
		HTMLURL:  "https://github.com/" + commandTestOwner + "/" + name,
		Fork:     fork,
		Private:  private,
		NodeID:   "R_" + name,
	}
}

func mixedRepositories() []shared.Repository {
	return []shared.Repository{
		commandRepository("a", true, false),
		commandRepository("b", false, false),
		commandRepository("c", true, true),
		commandRepository("d", false, true),
	}
}

func executeCommand(testInstance *testing.T, command *cobra.Command, input string, arguments ...string) (string, error) {
	testInstance.Helper()
	outputBuffer := &bytes.Buffer{}
	command.SetArgs(arguments)
	command.SetIn(strings.NewReader(input))
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())
	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestForksDeleteCommand(testInstance *testing.T) {
	testCases := []struct {
		name                string
		configuration       repos.ForksDeleteConfiguration
		input               string
		arguments           []string
		expectedCalls       []string
		expectedFragments   []string
		expectErrorFragment string
	}{
		{
			name:              "typed_phrase_deletes_forks",
			input:             deletePhraseInput,
			expectedCalls:     []string{"list", "delete:a", "delete:c"},
			expectedFragments: []string{confirmationPromptFragment, "Deleted: a", "Deleted: c", "  ✓ Deleted: 2\n"},
		},
		{
			name:              "wrong_phrase_cancels",
			input:             wrongPhraseInput,
			expectedCalls:     []string{"list"},
			expectedFragments: []string{deletionCancelledFragment},
		},
		{
			name:              "empty_input_cancels",
			input:             "",
			expectedCalls:     []string{"list"},
			expectedFragments: []string{deletionCancelledFragment},
		},
		{
			name:          "yes_flag_skips_prompt",
			arguments:     []string{assumeYesFlag},
			expectedCalls: []string{"list", "delete:a", "delete:c"},
		},
		{
			name:          "configured_assume_yes_skips_prompt",
			configuration: repos.ForksDeleteConfiguration{AssumeYes: true},
			expectedCalls: []string{"list", "delete:a", "delete:c"},
		},
		{
			name:              "yes_flag_disables_configured_assume_yes",
			configuration:     repos.ForksDeleteConfiguration{AssumeYes: true},
			arguments:         []string{assumeYesDisabledFlag},
			input:             wrongPhraseInput,
			expectedCalls:     []string{"list"},
			expectedFragments: []string{deletionCancelledFragment},
		},
		{
			name:                "positional_arguments_rejected",
			arguments:           []string{"unexpected"},
			expectErrorFragment: "unknown command",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			client := &fakeGitHubClient{repositories: mixedRepositories()}
			builder := repos.ForksDeleteCommandBuilder{
				ConfigurationProvider: func() repos.ForksDeleteConfiguration {
					return testCase.configuration
				},
				Lister:  client,
				Deleter: client,
			}
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			output, executionError := executeCommand(subtest, command, testCase.input, testCase.arguments...)
			if len(testCase.expectErrorFragment) > 0 {
				require.Error(subtest, executionError)
				require.Contains(subtest, executionError.Error(), testCase.expectErrorFragment)
				require.Empty(subtest, client.calls)
				return
			}

			require.NoError(subtest, executionError)
			require.Equal(subtest, testCase.expectedCalls, client.calls)
			for _, fragment := range testCase.expectedFragments {
				require.Contains(subtest, output, fragment)
			}
		})
	}
}

func TestForksDeleteCommandEnumerationFailureIsFatal(testInstance *testing.T) {
	enumerationFailure := errors.New("401 Bad credentials")
	client := &fakeGitHubClient{listError: enumerationFailure}
	builder := repos.ForksDeleteCommandBuilder{Lister: client, Deleter: client}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, command, deletePhraseInput, assumeYesFlag)
	require.ErrorIs(testInstance, executionError, enumerationFailure)
	require.Equal(testInstance, []string{"list"}, client.calls)
}

func TestPrivatizeCommandSkipsForks(testInstance *testing.T) {
	client := &fakeGitHubClient{repositories: mixedRepositories()}
	builder := repos.PrivatizeCommandBuilder{Lister: client, Editor: client}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, privatizePhraseInput)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"list", "private:b"}, client.calls)
	require.Contains(testInstance, output, "Type 'MAKE PRIVATE' to confirm: ")
}

func TestForksDetachCommandDetachesThenPrivatizes(testInstance *testing.T) {
	client := &fakeGitHubClient{
		repositories: mixedRepositories(),
		failures:     map[string]error{},
	}
	client.failures["a"] = errors.New("500 Internal Server Error")
	builder := repos.ForksDetachCommandBuilder{Lister: client, Detacher: client, Editor: client}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, detachPhraseInput)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"list", "detach:a", "detach:c", "private:c"}, client.calls)
	require.Contains(testInstance, output, "Failed to detach: 500 Internal Server Error")
	require.Contains(testInstance, output, "Made private: c")
}

func TestCommandsResolveTokenBeforeBuildingClient(testInstance *testing.T) {
	testCases := []struct {
		name           string
		arguments      []string
		configuration  repos.GitHubConfiguration
		expectedSource string
	}{
		{
			name:           "flag_overrides_configuration",
			arguments:      []string{tokenSourceFlag, tokenSourceFlagValue},
			configuration:  repos.GitHubConfiguration{TokenSource: "file:/etc/forksweep/token"},
			expectedSource: tokenSourceFlagValue,
		},
		{
			name:           "configuration_used_without_flag",
			configuration:  repos.GitHubConfiguration{TokenSource: "file:/etc/forksweep/token"},
			expectedSource: "file:/etc/forksweep/token",
		},
		{
			name:           "empty_source_falls_back_to_default_environment",
			expectedSource: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			resolver := &stubTokenResolver{err: githubauth.ErrTokenMissing}
			builder := repos.ForksDetachCommandBuilder{
				TokenResolver: resolver,
				GitHubConfigurationProvider: func() repos.GitHubConfiguration {
					return testCase.configuration
				},
			}
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			_, executionError := executeCommand(subtest, command, detachPhraseInput, testCase.arguments...)
			require.ErrorIs(subtest, executionError, githubauth.ErrTokenMissing)
			require.Equal(subtest, 1, resolver.invocations)
			require.Equal(subtest, testCase.expectedSource, resolver.receivedSource)
		})
	}
}

func TestForksDeleteCommandAgainstGitHubServer(testInstance *testing.T) {
	var deletedPaths []string
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		assert.Equal(testInstance, "Bearer "+commandTestToken, request.Header.Get("Authorization"))
		switch {
		case request.Method == http.MethodGet && request.URL.Path == "/user/repos":
			assert.Equal(testInstance, "owner", request.URL.Query().Get("affiliation"))
			responseWriter.Header().Set("Content-Type", "application/json")
			_, _ = responseWriter.Write([]byte(`[
				{"name":"a","full_name":"octocat/a","html_url":"https://github.com/octocat/a","fork":true,"private":false,"owner":{"login":"octocat"}},
				{"name":"b","full_name":"octocat/b","html_url":"https://github.com/octocat/b","fork":false,"private":false,"owner":{"login":"octocat"}},
				{"name":"c","full_name":"octocat/c","html_url":"https://github.com/octocat/c","fork":true,"private":true,"owner":{"login":"octocat"}}
			]`))
		case request.Method == http.MethodDelete && request.URL.Path == "/repos/octocat/a":
			deletedPaths = append(deletedPaths, request.URL.Path)
			responseWriter.WriteHeader(http.StatusNoContent)
		case request.Method == http.MethodDelete && request.URL.Path == "/repos/octocat/c":
			deletedPaths = append(deletedPaths, request.URL.Path)
			responseWriter.Header().Set("Content-Type", "application/json")
			responseWriter.WriteHeader(http.StatusForbidden)
			_, _ = responseWriter.Write([]byte(`{"message":"Must have admin rights to Repository."}`))
		default:
			responseWriter.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	builder := repos.ForksDeleteCommandBuilder{
		TokenResolver: &stubTokenResolver{token: commandTestToken},
		GitHubConfigurationProvider: func() repos.GitHubConfiguration {
			configuration := repos.DefaultGitHubConfiguration()
			configuration.APIBaseURL = server.URL
			configuration.GraphQLURL = server.URL + "/graphql"
			return configuration
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, deletePhraseInput)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"/repos/octocat/a", "/repos/octocat/c"}, deletedPaths)
	require.Contains(testInstance, output, "✓ [1/2] Deleted: a\n")
	require.Contains(testInstance, output, "✗ [2/2] Permission denied: c\n")
	require.Contains(testInstance, output, "⚠️  Permission Errors (1):\n")
	require.Contains(testInstance, output, "  - c\n")
}
