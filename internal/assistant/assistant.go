package assistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/address-book-bot/internal/contacts"
	"go.uber.org/zap"
)

// Replies shown to the user
const (
	MsgWelcome        = "Welcome to the assistant bot!"
	MsgGoodbye        = "Good bye!"
	MsgPrompt         = "Enter a command: "
	MsgContactAdded   = "Contact added."
	MsgContactUpdated = "Contact updated."
	MsgContactChanged = "Contact changed."
	MsgContactDeleted = "Contact deleted."
	MsgPhoneRemoved   = "Phone removed."
	MsgBirthdayAdded  = "Birthday added."
	MsgNotFound       = "Contact not found."
	MsgNoBirthday     = "Birthday is not set."
	MsgNoUpcoming     = "No upcoming birthdays."
	MsgNotEnoughArgs  = "Not enough arguments."
	MsgInvalidCommand = "Invalid command."
)

var errNotEnoughArgs = errors.New(MsgNotEnoughArgs)

const helpText = `How can I help you?
Commands:
  add [name] [phone]
  change [name] [old phone] [new phone]
  remove-phone [name] [phone]
  phone [name]
  delete [name]
  all
  add-birthday [name] [date in format DD.MM.YYYY]
  show-birthday [name]
  birthdays [days]
  exit | close`

// Assistant executes text commands against an address book
type Assistant struct {
	book   *contacts.AddressBook
	window int
	logger *zap.Logger
}

// New creates an assistant. window is the default birthdays look-ahead.
func New(book *contacts.AddressBook, window int, logger *zap.Logger) *Assistant {
	return &Assistant{
		book:   book,
		window: window,
		logger: logger,
	}
}

// Book returns the address book the assistant works on
func (a *Assistant) Book() *contacts.AddressBook {
	return a.book
}

// ParseInput splits a line into a lower-cased command and its arguments
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// Handle executes one command line. exit reports a close/exit command.
// Errors are rendered into the reply; Handle never fails.
func (a *Assistant) Handle(line string) (reply string, exit bool) {
	command, args := ParseInput(line)

	var err error
	switch command {
	case "close", "exit":
		return MsgGoodbye, true
	case "hello", "help":
		reply = helpText
	case "add":
		reply, err = a.AddContact(args)
	case "change":
		reply, err = a.ChangeContact(args)
	case "remove-phone":
		reply, err = a.RemovePhone(args)
	case "phone":
		reply, err = a.ShowPhone(args)
	case "delete":
		reply, err = a.DeleteContact(args)
	case "all":
		reply = a.ShowAll()
	case "add-birthday":
		reply, err = a.AddBirthday(args)
	case "show-birthday":
		reply, err = a.ShowBirthday(args)
	case "birthdays":
		reply, err = a.Birthdays(args)
	default:
		reply = MsgInvalidCommand
	}

	if err != nil {
		a.logger.Debug("Command failed",
			zap.String("command", command),
			zap.Error(err))
		return err.Error(), false
	}

	return reply, false
}

// AddContact creates the contact if needed and appends the phone, when given
func (a *Assistant) AddContact(args []string) (string, error) {
	if len(args) < 1 {
		return "", errNotEnoughArgs
	}
	name := args[0]

	record, ok := a.book.Find(name)
	message := MsgContactUpdated
	if !ok {
		var err error
		record, err = contacts.NewRecord(name)
		if err != nil {
			return "", err
		}
		message = MsgContactAdded
	}

	if len(args) > 1 {
		if err := record.AddPhone(args[1]); err != nil {
			return "", err
		}
	}

	if !ok {
		a.book.AddRecord(record)
		a.logger.Info("Contact added", zap.String("name", name))
	}

	return message, nil
}

// ChangeContact replaces one phone of a contact
func (a *Assistant) ChangeContact(args []string) (string, error) {
	if len(args) < 3 {
		return "", errNotEnoughArgs
	}

	record, ok := a.book.Find(args[0])
	if !ok {
		return MsgNotFound, nil
	}
	if err := record.EditPhone(args[1], args[2]); err != nil {
		return "", err
	}
	return MsgContactChanged, nil
}

// RemovePhone removes one phone of a contact
func (a *Assistant) RemovePhone(args []string) (string, error) {
	if len(args) < 2 {
		return "", errNotEnoughArgs
	}

	record, ok := a.book.Find(args[0])
	if !ok {
		return MsgNotFound, nil
	}
	record.RemovePhone(args[1])
	return MsgPhoneRemoved, nil
}

// ShowPhone renders a contact with its phones
func (a *Assistant) ShowPhone(args []string) (string, error) {
	if len(args) < 1 {
		return "", errNotEnoughArgs
	}

	record, ok := a.book.Find(args[0])
	if !ok {
		return MsgNotFound, nil
	}
	return record.String(), nil
}

// DeleteContact removes a contact
func (a *Assistant) DeleteContact(args []string) (string, error) {
	if len(args) < 1 {
		return "", errNotEnoughArgs
	}

	if _, ok := a.book.Find(args[0]); !ok {
		return MsgNotFound, nil
	}
	a.book.Delete(args[0])
	a.logger.Info("Contact deleted", zap.String("name", args[0]))
	return MsgContactDeleted, nil
}

// ShowAll renders the whole book
func (a *Assistant) ShowAll() string {
	return a.book.String()
}

// AddBirthday sets a contact's birthday
func (a *Assistant) AddBirthday(args []string) (string, error) {
	if len(args) < 2 {
		return "", errNotEnoughArgs
	}

	record, ok := a.book.Find(args[0])
	if !ok {
		return MsgNotFound, nil
	}
	if err := record.AddBirthday(args[1]); err != nil {
		return "", err
	}
	return MsgBirthdayAdded, nil
}

// ShowBirthday renders a contact's birthday
func (a *Assistant) ShowBirthday(args []string) (string, error) {
	if len(args) < 1 {
		return "", errNotEnoughArgs
	}

	record, ok := a.book.Find(args[0])
	if !ok {
		return MsgNotFound, nil
	}
	birthday, ok := record.Birthday()
	if !ok {
		return MsgNoBirthday, nil
	}
	return birthday.String(), nil
}

// Birthdays lists upcoming congratulations, one "name: date" per line.
// An optional argument overrides the default window.
func (a *Assistant) Birthdays(args []string) (string, error) {
	days := a.window
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid number of days: %s", args[0])
		}
		days = n
	}

	return FormatCongratulations(a.book.UpcomingBirthdays(days)), nil
}

// FormatCongratulations renders upcoming birthdays for display
func FormatCongratulations(upcoming []contacts.Congratulation) string {
	if len(upcoming) == 0 {
		return MsgNoUpcoming
	}

	lines := make([]string, len(upcoming))
	for i, c := range upcoming {
		lines[i] = fmt.Sprintf("%s: %s", c.Name, c.CongratulationDate)
	}
	return strings.Join(lines, "\n")
}

// Run reads commands from in until exit, EOF or ctx cancellation, writing replies to out
func (a *Assistant) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(out, MsgWelcome)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, MsgPrompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			fmt.Fprintln(out, MsgGoodbye)
			return nil

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				fmt.Fprintln(out, MsgGoodbye)
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}

			if strings.TrimSpace(line) == "" {
				continue
			}

			reply, exit := a.Handle(line)
			fmt.Fprintln(out, reply)
			if exit {
				return nil
			}
		}
	}
}
