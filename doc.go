/*
Package hob provides the building blocks of a slack bot driven by plugins.

A plugin combines bang commands (i.e. "!dice 2d6"), passive listeners that hear every message,
mention listeners, slash commands and scheduled actions. Commands follow the grammar

	!COMMAND [REST]

and are dispatched to the plugin that registered COMMAND while every passive listener still
hears the message. Responses to a message are tracked so that they get deleted along with it.

Plugins also have access to services injected on startup by hob:
  - SLogger: To log debug/info statements
  - EmojiReactor: To emoji react to messages
  - FileUploader: To upload files
  - UserInfoFinder: To query user info
  - MessagePoster: To send messages outside of the normal answer flow (i.e. from a scheduled action)
  - ChannelDirectory: To list channels and their members

Example code (see cmd/hob for the complete version):

	package main

	import (
		"context"
		"log"

		"github.com/gadling/hob"
		"github.com/gadling/hob/config"
		"github.com/gadling/hob/plugins"
	)

	func main() {
		v, err := config.Load("~/.config/hob/config.yaml")
		if err != nil {
			log.Fatal(err)
		}

		bot, err := hob.NewBot("hob", v).
			WithPlugin(plugins.NewKarma(karmaStorer).Plugin).
			WithPlugin(plugins.NewDice(nil)).
			WithPlugin(plugins.NewPing("hob", hob.Version, plugins.CurrentHost())).
			Build()
		if err != nil {
			log.Fatal(err)
		}
		defer bot.Close()

		if err = bot.Run(context.Background()); err != nil {
			log.Fatal(err)
		}
	}
*/
package hob
