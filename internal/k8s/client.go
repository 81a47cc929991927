package k8s

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

// Options selects the kubeconfig, context and namespace a Client connects with.
// Empty fields fall back to $KUBECONFIG / ~/.kube/config and the kubeconfig defaults.
type Options struct {
	Kubeconfig string
	Context    string
	Namespace  string
	Logger     logr.Logger
}

// Client wraps the Kubernetes clientsets and connection metadata.
// It implements domain.RolloutGateway.
type Client struct {
	clientset      kubernetes.Interface
	dynamic        dynamic.Interface
	config         *rest.Config
	opts           Options
	kubeconfigPath string
	context        string
	serverURL      string
	namespace      string
	log            logr.Logger
	now            func() time.Time
}

// Compile-time check that Client implements domain.RolloutGateway.
var _ domain.RolloutGateway = (*Client)(nil)

// --- ClusterInfo implementation ---

func (c *Client) GetContext() string     { return c.context }
func (c *Client) GetServerURL() string   { return c.serverURL }
func (c *Client) GetNamespace() string   { return c.namespace }
func (c *Client) SetNamespace(ns string) { c.namespace = ns }

// NewClient creates a K8s client from kubeconfig.
func NewClient(opts Options) (*Client, error) {
	kubeconfigPath := opts.Kubeconfig
	if kubeconfigPath == "" {
		kubeconfigPath = os.Getenv("KUBECONFIG")
	}
	if kubeconfigPath == "" {
		home, _ := os.UserHomeDir()
		kubeconfigPath = filepath.Join(home, ".kube", "config")
	}

	if _, err := os.Stat(kubeconfigPath); os.IsNotExist(err) {
		return nil, &domain.APIError{
			Type:    domain.ErrNoKubeconfig,
			Message: fmt.Sprintf("Aucun kubeconfig trouvé.\nConfigurez votre accès avec : kubectl config use-context <ctx>\n\nCherché dans : %s", kubeconfigPath),
			Err:     err,
		}
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfigPath}
	configOverrides := &clientcmd.ConfigOverrides{CurrentContext: opts.Context}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)

	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrBadKubeconfig,
			Message: fmt.Sprintf("Kubeconfig invalide : %v", err),
			Err:     err,
		}
	}

	currentContext := rawConfig.CurrentContext
	if opts.Context != "" {
		currentContext = opts.Context
	}
	kubeCtx, ok := rawConfig.Contexts[currentContext]
	if currentContext == "" || !ok {
		return nil, &domain.APIError{
			Type:    domain.ErrNoContext,
			Message: "Aucun contexte actif dans le kubeconfig.\nUtilisez : kubectl config use-context <ctx>",
		}
	}

	restConfig, err := kubeConfig.ClientConfig()
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrBadKubeconfig,
			Message: fmt.Sprintf("Impossible de créer la config client : %v", err),
			Err:     err,
		}
	}

	// Optimize for snappy TUI
	restConfig.QPS = 50
	restConfig.Burst = 100
	restConfig.Timeout = 10 * time.Second

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrUnknown,
			Message: fmt.Sprintf("Impossible de créer le client K8s : %v", err),
			Err:     err,
		}
	}

	dyn, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrUnknown,
			Message: fmt.Sprintf("Impossible de créer le client dynamique : %v", err),
			Err:     err,
		}
	}

	namespace := opts.Namespace
	if namespace == "" {
		namespace, _, _ = kubeConfig.Namespace()
	}
	if namespace == "" {
		namespace = "default"
	}

	serverURL := ""
	if clusterInfo, ok := rawConfig.Clusters[kubeCtx.Cluster]; ok {
		serverURL = clusterInfo.Server
	}

	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	return &Client{
		clientset:      clientset,
		dynamic:        dyn,
		config:         restConfig,
		opts:           opts,
		kubeconfigPath: kubeconfigPath,
		context:        currentContext,
		serverURL:      serverURL,
		namespace:      namespace,
		log:            log.WithValues("context", currentContext),
		now:            time.Now,
	}, nil
}

// Reconnect reloads the kubeconfig from disk and recreates the clientsets.
// The active namespace is kept.
func (c *Client) Reconnect() error {
	newClient, err := NewClient(c.opts)
	if err != nil {
		return err
	}
	c.clientset = newClient.clientset
	c.dynamic = newClient.dynamic
	c.config = newClient.config
	c.context = newClient.context
	c.serverURL = newClient.serverURL
	c.log.Info("reconnected", "server", c.serverURL)
	return nil
}

// ServerVersion returns the git version reported by the API server.
func (c *Client) ServerVersion(_ context.Context) (string, error) {
	info, err := c.clientset.Discovery().ServerVersion()
	if err != nil {
		return "", classifyError(err, c.serverURL)
	}
	return info.GitVersion, nil
}

// classifyError converts a raw K8s error into a domain.APIError.
func classifyError(err error, serverURL string) error {
	if err == nil {
		return nil
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return err
	}

	var statusErr *k8serrors.StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.Status().Code
		switch {
		case code == http.StatusUnauthorized:
			loginCmd := "kubectl config use-context <ctx>"
			if serverURL != "" {
				loginCmd = fmt.Sprintf("reconnectez-vous à %s", serverURL)
			}
			return &domain.APIError{
				Type:    domain.ErrTokenExpired,
				Message: fmt.Sprintf("Session expirée. %s\nPuis appuyez sur 'r' pour reconnecter", loginCmd),
				Err:     err,
			}
		case code == http.StatusForbidden:
			return &domain.APIError{
				Type:    domain.ErrForbidden,
				Message: statusErr.Status().Message,
				Err:     err,
			}
		case code == http.StatusNotFound:
			return &domain.APIError{
				Type:    domain.ErrNotFound,
				Message: statusErr.Status().Message,
				Err:     err,
			}
		case code == http.StatusConflict:
			return &domain.APIError{
				Type:    domain.ErrConflict,
				Message: "Conflit : la ressource a été modifiée. Réessayez.",
				Err:     err,
			}
		case code == http.StatusUnprocessableEntity || code == http.StatusBadRequest:
			return &domain.APIError{
				Type:    domain.ErrInvalid,
				Message: statusErr.Status().Message,
				Err:     err,
			}
		case code == http.StatusTooManyRequests:
			return &domain.APIError{
				Type:    domain.ErrRateLimited,
				Message: "Trop de requêtes. Pause 2s...",
				Err:     err,
			}
		case code >= 500:
			return &domain.APIError{
				Type:    domain.ErrServerError,
				Message: fmt.Sprintf("Erreur serveur (%d). Réessayez avec 'r'.", code),
				Err:     err,
			}
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "x509") || strings.Contains(errStr, "certificate") || strings.Contains(errStr, "tls") {
		return &domain.APIError{
			Type:    domain.ErrTLS,
			Message: fmt.Sprintf("Certificat TLS invalide pour %s.\nVérifiez votre kubeconfig.", serverURL),
			Err:     err,
		}
	}

	if strings.Contains(errStr, "dial tcp") || strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return &domain.APIError{
			Type:    domain.ErrUnreachable,
			Message: fmt.Sprintf("Cluster injoignable : %s\n%v", serverURL, err),
			Err:     err,
		}
	}

	return &domain.APIError{
		Type:    domain.ErrUnknown,
		Message: err.Error(),
		Err:     err,
	}
}

func invalidInput(format string, args ...any) error {
	return &domain.APIError{
		Type:    domain.ErrInvalid,
		Message: fmt.Sprintf(format, args...),
	}
}
