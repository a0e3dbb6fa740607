// Package gmail wraps the Gmail and People APIs for gvault.
//
// The Client covers thread listing and retrieval, message bodies in
// text or html, attachment download, sending mail with the account's
// SendAs signature appended, contact search, and conversion of threads
// into vault email notes.
//
// Clients are built per account from the cached OAuth token:
//
//	client, err := gmail.NewClientForAccount(ctx, "work")
//	if err != nil {
//	    return err
//	}
//	threads, err := client.ListThreads("in:inbox is:unread", 10)
//
// NewClient is shorthand for the default account. Server code passes a
// google.TokenProvider instead via NewClientForAccountWithProvider.
package gmail
