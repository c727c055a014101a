// Package paypay provides a client for the private API of the PayPay mobile app.
//
// The client emulates the Android app: it signs in with the app's OAuth2 PAR + PKCE
// flow and then calls the app backend with the resulting bearer token.
//
// # Login
//
// Sign-in is a two-step state machine. LoginStart submits the phone number and
// password and asks PayPay to deliver a second factor; LoginConfirm completes the
// sign-in with the link (or code) the user received:
//
//	client, err := paypay.NewClient(ctx)
//	if err != nil {
//	    return err
//	}
//	if err = client.LoginStart(ctx, "09012345678", "password"); err != nil {
//	    return err
//	}
//	// The user opens the one-time link on their phone and pastes its URL.
//	token, err := client.LoginConfirm(ctx, linkURL)
//
// A previously obtained access token skips the login entirely:
//
//	client, err := paypay.NewClient(ctx, paypay.WithAccessToken(token))
//
// # Operations
//
// Balance, history, profile and P2P link operations all require a token and
// return the service envelope as *Response:
//
//	balance, err := client.GetBalance(ctx)
//	fmt.Println(balance.Get("walletSummary.allTotalBalanceInfo.balance").Int())
//
// # Error Handling
//
// Every failure is an *Error whose Kind tells what went wrong. Service rejections
// carry the result code and message verbatim:
//
//	_, err := client.AcceptLink(ctx, code, "")
//	switch {
//	case errors.Is(err, paypay.ErrPasscodeRequired):
//	    // ask for the passcode
//	case errors.Is(err, paypay.ErrLinkNotPending):
//	    // already accepted or rejected
//	case paypay.IsRemoteError(err):
//	    code, _ := paypay.ResultCode(err)
//	    // handle result code
//	}
//
// A Client is not safe for concurrent use.
package paypay
