// Package auth stores the GitHub token in the operating system keyring and
// helps the user create one.
package auth
