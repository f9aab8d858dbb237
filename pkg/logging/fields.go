package logging

import "log/slog"

// Domain identifiers

func Username(name string) slog.Attr {
	return slog.String("username", name)
}

func Peer(name string) slog.Attr {
	return slog.String("peer", name)
}

func Connection(id string) slog.Attr {
	return slog.String("connection_id", id)
}

func Chat(key string) slog.Attr {
	return slog.String("chat_key", key)
}

func Message(id string) slog.Attr {
	return slog.String("message_id", id)
}

// Error handling

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
