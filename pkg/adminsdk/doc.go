/*
Package adminsdk is a Go client for the taxonomy admin RPC API.

# Overview

Procedures are called over HTTP under /api/rpc/. Queries use GET with the
JSON input in the input query parameter; mutations use POST with a JSON body.
Every response is wrapped in {"result":{"data":...}} or {"error":{...}}; the
client unwraps the data and turns error envelopes into *RPCError.

# SDKClient vs Session

SDKClient calls public procedures anonymously:

	client := adminsdk.NewSDKClient("https://admin.example.com")

	categories, err := client.GetCategories(ctx)
	fields, err := client.GetFormFields(ctx, "trucks", "job")

Login returns a Session that carries the auth-token cookie in its own jar:

	session, err := client.Login(ctx, adminsdk.LoginRequest{Email: email, Password: pw})
	if adminsdk.IsCode(err, adminsdk.CodePreconditionFailed) {
		// account has TOTP enabled, retry with OTP set
	}

	me, err := session.Me(ctx)
	value, err := session.UpdateFormValue(ctx, id, map[string]any{"valueEs": "Tarimas", "rank": nil})
	err = session.Logout(ctx)

A nil member in an update clears the column; omitted members are unchanged.
*/
package adminsdk
