// Package smsdrop provides a Go client SDK for the SmsDrop REST API,
// an SMS delivery provider supporting plain, parameterized and group
// sends, scheduled delivery, per-recipient delivery status and send
// history.
//
// Basic usage:
//
//	client, err := smsdrop.New("username", "password")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	to, err := client.NewRecipient("+391234567890")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	msg := &smsdrop.Message{
//	    Body:       "Your code is 1234",
//	    Recipients: []smsdrop.Destination{to},
//	}
//
//	result, err := client.Send(ctx, msg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Order:", result.OrderID)
//
// Authentication against the provider happens lazily on the first call;
// the credential is then reused for the lifetime of the client.
package smsdrop
