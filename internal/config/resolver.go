package config

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// EmailConfig is the delivery configuration resolved from Parameter Store.
type EmailConfig struct {
	Region    string
	Sender    string
	Recipient string
}

// Resolver resolves the email delivery configuration.
type Resolver interface {
	Resolve(ctx context.Context) (EmailConfig, error)
}

// parameter describes one required Parameter Store entry. Secret
// parameters are prompted without echo; email addresses are echoed so
// typos are visible before they are persisted.
type parameter struct {
	name, description string
	secret            bool
}

var requiredParameters = []parameter{
	{name: "aws_region", description: "AWS region for SES (e.g., us-east-1)", secret: true},
	{name: "sender_email", description: "Email address to send from (must be verified in SES)"},
	{name: "recipient_email", description: "Default email address to send to"},
}

// ssmAPI is the subset of the SSM client the resolvers use.
type ssmAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// ParameterStoreResolver resolves configuration from SSM Parameter Store
// and fails closed when parameters are missing. Use it directly in
// non-interactive contexts (Lambda), or wrapped by InteractiveResolver.
type ParameterStoreResolver struct {
	client ssmAPI
	path   string
}

// NewParameterStoreResolver builds a fail-closed resolver reading
// parameters under the given path.
func NewParameterStoreResolver(client *ssm.Client, path string) *ParameterStoreResolver {
	return &ParameterStoreResolver{client: client, path: path}
}

func (r *ParameterStoreResolver) Resolve(ctx context.Context) (EmailConfig, error) {
	values, err := r.fetch(ctx)
	if err != nil {
		return EmailConfig{}, fmt.Errorf("failed to read Parameter Store: %w", err)
	}

	var missing []string
	for _, p := range requiredParameters {
		if strings.TrimSpace(values[p.name]) == "" {
			missing = append(missing, p.name)
		}
	}
	if len(missing) > 0 {
		return EmailConfig{}, fmt.Errorf("missing required parameters in Parameter Store: %s", strings.Join(missing, ", "))
	}

	return EmailConfig{
		Region:    values["aws_region"],
		Sender:    values["sender_email"],
		Recipient: values["recipient_email"],
	}, nil
}

func (r *ParameterStoreResolver) fetch(ctx context.Context) (map[string]string, error) {
	out, err := r.client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(r.path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(out.Parameters))
	for _, p := range out.Parameters {
		name := aws.ToString(p.Name)
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		values[name] = aws.ToString(p.Value)
	}
	return values, nil
}

// put persists one parameter as a SecureString for future runs.
func (r *ParameterStoreResolver) put(ctx context.Context, name, value string) error {
	full := strings.TrimRight(r.path, "/") + "/" + name
	_, err := r.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(full),
		Value:     aws.String(value),
		Type:      types.ParameterTypeSecureString,
		Overwrite: aws.Bool(true),
	})
	return err
}

// InteractiveResolver wraps a ParameterStoreResolver and prompts for any
// missing parameter, persisting the answers back to Parameter Store.
// Only usable where stdin is a terminal, i.e. local runs.
type InteractiveResolver struct {
	store      *ParameterStoreResolver
	in         *bufio.Reader
	out        io.Writer
	readSecret func() (string, error)
}

// NewInteractiveResolver builds a prompting resolver reading answers
// from in and writing prompts to out. When in is a terminal, secret
// parameters are read without echo.
func NewInteractiveResolver(store *ParameterStoreResolver, in io.Reader, out io.Writer) *InteractiveResolver {
	r := &InteractiveResolver{store: store, in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		r.readSecret = func() (string, error) {
			answer, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			return string(answer), err
		}
	}
	return r
}

func (r *InteractiveResolver) Resolve(ctx context.Context) (EmailConfig, error) {
	values, err := r.store.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Error accessing Parameter Store, prompting for all parameters")
		values = map[string]string{}
	}

	for _, p := range requiredParameters {
		if strings.TrimSpace(values[p.name]) != "" {
			continue
		}

		value, err := r.prompt(p)
		if err != nil {
			return EmailConfig{}, err
		}
		if strings.TrimSpace(value) == "" {
			return EmailConfig{}, fmt.Errorf("missing required parameter: %s", p.name)
		}
		values[p.name] = value

		if err := r.store.put(ctx, p.name, value); err != nil {
			log.Error().Err(err).Str("parameter", p.name).Msg("Failed to persist parameter")
		} else {
			log.Info().Str("parameter", p.name).Msg("Parameter stored in Parameter Store")
		}
	}

	return EmailConfig{
		Region:    values["aws_region"],
		Sender:    values["sender_email"],
		Recipient: values["recipient_email"],
	}, nil
}

func (r *InteractiveResolver) prompt(p parameter) (string, error) {
	fmt.Fprintf(r.out, "Enter value for '%s' (%s): ", p.name, p.description)

	if p.secret && r.readSecret != nil {
		value, err := r.readSecret()
		if err != nil {
			return "", fmt.Errorf("failed to read parameter %s: %w", p.name, err)
		}
		return strings.TrimSpace(value), nil
	}

	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read parameter %s: %w", p.name, err)
	}
	return strings.TrimSpace(line), nil
}
