// Package cdp is a client SDK for the platform API. It authenticates every
// outbound request with a short-lived signed token and drives long-running
// blockchain operations — transfers, trades, staking operations and fund
// operations — to a terminal result.
//
// A Client is constructed from configuration, typically loaded from the
// environment:
//
//	cfg, err := cdp.LoadConfig(logger)
//	if err != nil {
//	    return err
//	}
//	client, err := cdp.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//
// Operations follow a create, sign, broadcast, wait lifecycle. Signing is
// local: the SDK never sees the wallet key beyond the sign.Signer interface.
//
//	address := client.Address("base-sepolia", "0x02f7...")
//	transfer, err := address.CreateTransfer(ctx, cdp.CreateTransferRequest{
//	    Amount:      decimal.RequireFromString("0.01"),
//	    AssetID:     "eth",
//	    Destination: "0x4D9E...",
//	})
//	if err != nil {
//	    return err
//	}
//	if err := transfer.Sign(signer); err != nil {
//	    return err
//	}
//	if err := transfer.Broadcast(ctx); err != nil {
//	    return err
//	}
//	if err := transfer.Wait(ctx); err != nil {
//	    return err
//	}
//
// Gasless transfers skip the signing step: the platform sponsors and
// submits the transaction, so Broadcast is called on the unsigned transfer.
//
// Operations created through the SDK are held only in memory: the caller
// that created an operation owns it for its lifetime, and a single
// operation instance must not be shared between goroutines. Reload, Wait
// and Sign mutate the local snapshot in place; a reload never discards
// signatures already applied locally.
package cdp
