// Package git clones and synchronizes repositories with go-git.
//
// The package keeps a local checkout in step with a remote: Clone creates it,
// Repo.Pull fast-forwards it and Sync picks whichever is needed. All repository
// state lives in a billy filesystem, so the same code runs against disk or memory.
//
// # Authentication
//
// Credentials come from an auth.AuthProvider, usually an auth.CallbackProvider
// wrapping the callback selected by the flow registry:
//
//	cb, err := auth.SelectFlow(cfg, secrets)
//	if err != nil {
//	    return err // authentication misconfigured
//	}
//
//	repo, err := git.Sync(ctx, "https://gitea.example.com/org/repo.git", &git.Options{
//	    FS:   osfs.New("/var/lib/gitsync/repo"),
//	    Auth: auth.NewCallbackProvider(cb),
//	})
//
// The provider is consulted before any network access. Errors it returns are
// passed through wrapped, so errors.Is(err, auth.ErrAuthenticationMisconfigured)
// keeps working.
//
// # Errors
//
// Transport failures are mapped onto sentinels:
//   - ErrAuthRequired: the remote wants credentials and none were sent
//   - ErrAuthFailed: the remote rejected the credentials
//   - ErrRepositoryNotFound: the remote repository does not exist
//
// Pull additionally reports ErrAlreadyUpToDate and ErrNotFastForward.
package git
