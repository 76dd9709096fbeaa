package messaging

// AppId of published messages.
const publisherAppID = "deckswipe-server"
