package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/config"
	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

// AvatarSource reads back avatars written through the blob store
type AvatarSource interface {
	Open(ref string) ([]byte, error)
}

type PublicHandler struct {
	profiles   ports.ProfileService
	engagement ports.EngagementService
	avatars    AvatarSource
	salt       string
	proxies    trustedProxies
	logger     *zap.Logger
}

func NewPublicHandler(profiles ports.ProfileService, engagement ports.EngagementService, avatars AvatarSource, cfg *config.Config, logger *zap.Logger) *PublicHandler {
	logger = logger.With(zap.String("component", "public_handler"))
	return &PublicHandler{
		profiles:   profiles,
		engagement: engagement,
		avatars:    avatars,
		salt:       cfg.FingerprintSalt,
		proxies:    parseTrustedProxies(cfg.TrustedProxies, logger),
		logger:     logger,
	}
}

// Profile renders the public link-in-bio page data
func (h *PublicHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetPublicProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		h.notFoundOrError(w, r, err)
		return
	}

	if err := h.engagement.RecordVisit(r.Context(), profile.ID, h.actor(r)); err != nil {
		requestLog(h.logger, r).Warn("recording visit failed", zap.Error(err))
	}

	// Email stays private on the public page.
	profile.Email = ""
	writeJSON(w, http.StatusOK, profile)
}

// LinkRedirect counts the click and sends the visitor on to the link target
func (h *PublicHandler) LinkRedirect(w http.ResponseWriter, r *http.Request) {
	linkID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return
	}

	link, err := h.profiles.GetPublicLink(r.Context(), r.PathValue("username"), linkID)
	if err != nil {
		h.notFoundOrError(w, r, err)
		return
	}

	if err := h.engagement.RecordLinkClick(r.Context(), link.ID, link.ProfileID, h.actor(r)); err != nil {
		requestLog(h.logger, r).Warn("recording link click failed", zap.Error(err))
	}

	http.Redirect(w, r, domain.NormalizeURL(link.URL), http.StatusFound)
}

func (h *PublicHandler) Post(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return
	}

	post, err := h.profiles.GetPublicPost(r.Context(), r.PathValue("username"), postID)
	if err != nil {
		h.notFoundOrError(w, r, err)
		return
	}

	if err := h.engagement.RecordPostView(r.Context(), post.ID, post.ProfileID, h.actor(r)); err != nil {
		requestLog(h.logger, r).Warn("recording post view failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PublicHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetPublicProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		h.notFoundOrError(w, r, err)
		return
	}
	if profile.AvatarRef == nil {
		http.NotFound(w, r)
		return
	}

	data, err := h.avatars.Open(*profile.AvatarRef)
	if err != nil {
		requestLog(h.logger, r).Error("reading avatar failed", zap.Error(err))
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(data)
}

func (h *PublicHandler) notFoundOrError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrLinkNotFound),
		errors.Is(err, domain.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		requestLog(h.logger, r).Error("public lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

// actor identifies the viewer: the signed-in profile if any, plus a salted hash of the address.
func (h *PublicHandler) actor(r *http.Request) domain.Actor {
	return domain.Actor{
		ProfileID:   ProfileIDFromContext(r.Context()),
		Fingerprint: Fingerprint(h.salt, h.proxies.clientIP(r)),
	}
}

// Fingerprint anonymizes a client address.
func Fingerprint(salt, ip string) string {
	sum := sha256.Sum256([]byte(salt + ip))
	return hex.EncodeToString(sum[:16])
}

type trustedProxies []netip.Prefix

// parseTrustedProxies accepts single addresses and CIDR ranges. Bad entries are logged and dropped.
func parseTrustedProxies(entries []string, logger *zap.Logger) trustedProxies {
	var out trustedProxies
	for _, entry := range entries {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			logger.Warn("ignoring invalid trusted proxy", zap.String("entry", entry))
			continue
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out
}

func (p trustedProxies) contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP is the socket peer unless that peer is a trusted proxy. Behind trusted proxies the
// X-Forwarded-For chain is read right to left and the first hop not in the list wins.
func (p trustedProxies) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !p.contains(peer) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			continue
		}
		if !p.contains(hop) {
			return hop.Unmap().String()
		}
	}
	return host
}
