// Package client is the sealrpc client: one instance per server, moving
// through discovery, trust confirmation and key agreement before it will
// send anything.
//
//	c, err := client.Dial(ctx, "https://node.example", trust.AcceptFingerprint(fp))
//	if err != nil { ... }
//	defer c.Close()
//	resp, err := c.Transfer(ctx, json.RawMessage(`{"to":"X","amount":5}`))
//
// A Client is safe for concurrent use once Ready.
package client
